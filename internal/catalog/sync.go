package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"viewing-scheduler-server/internal/logging"
	"viewing-scheduler-server/internal/models"
)

// Agents fetched from the dashboard backend carry no color, so one is picked
// from this palette by position.
var agentPalette = []string{
	"bg-red-500", "bg-green-500", "bg-purple-500", "bg-orange-500",
	"bg-blue-500", "bg-pink-500", "bg-teal-500", "bg-yellow-500",
}

// envelope is the response wrapper used by the dashboard backend.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// remoteUser is a user record from user/getAll. The dashboard backend keys
// documents by "_id" like its property records; users with role "agent"
// become agents.
type remoteUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
}

type remoteProperty struct {
	ID            string `json:"_id"`
	PropertyTitle string `json:"propertyTitle"`
	Location      string `json:"location"`
	Price         string `json:"price"`
	Type          string `json:"type"`
}

// Syncer refreshes a Catalog from the dashboard backend.
type Syncer struct {
	catalog *Catalog
	baseURL string
	client  *http.Client
	cron    *cron.Cron
}

// NewSyncer creates a syncer for baseURL, e.g. "http://localhost:5000/api/".
func NewSyncer(c *Catalog, baseURL string) *Syncer {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Syncer{
		catalog: c,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		cron:    cron.New(),
	}
}

// Start syncs once and then on schedule. An empty schedule only syncs once.
// A failed first sync is logged and leaves the current catalog in place.
func (s *Syncer) Start(ctx context.Context, schedule string) error {
	if err := s.Sync(ctx); err != nil {
		logging.Error("catalog sync failed", err, "url", s.baseURL)
	}
	if schedule == "" {
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.Sync(ctx); err != nil {
			logging.Error("catalog sync failed", err, "url", s.baseURL)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	logging.Info("catalog sync scheduled", "cron", schedule)
	s.cron.Start()
	return nil
}

// Stop halts scheduled syncs and waits for a running one to finish.
func (s *Syncer) Stop() {
	<-s.cron.Stop().Done()
}

// Sync refreshes agents and properties independently. A half whose request
// fails, or that comes back empty, keeps its current entries; the failures
// are joined into the returned error.
func (s *Syncer) Sync(ctx context.Context) error {
	var errs []error

	var users []remoteUser
	if err := s.fetch(ctx, "user/getAll", &users); err != nil {
		errs = append(errs, fmt.Errorf("fetch agents: %w", err))
	} else if agents := toAgents(users); len(agents) == 0 {
		errs = append(errs, errors.New("backend returned no agents"))
	} else {
		s.catalog.ReplaceAgents(agents)
		logging.Info("agents synced", "count", len(agents))
	}

	var props []remoteProperty
	if err := s.fetch(ctx, "property/getAll", &props); err != nil {
		errs = append(errs, fmt.Errorf("fetch properties: %w", err))
	} else if properties := toProperties(props); len(properties) == 0 {
		errs = append(errs, errors.New("backend returned no properties"))
	} else {
		s.catalog.ReplaceProperties(properties)
		logging.Info("properties synced", "count", len(properties))
	}

	return errors.Join(errs...)
}

func (s *Syncer) fetch(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		if !env.Success {
			return fmt.Errorf("backend error: %s", env.Message)
		}
		return json.Unmarshal(env.Data, out)
	}
	// Some endpoints answer with a bare array.
	return json.Unmarshal(body, out)
}

func toAgents(users []remoteUser) []models.Agent {
	var agents []models.Agent
	for _, u := range users {
		if !strings.EqualFold(u.Role, "agent") || u.ID == "" {
			continue
		}
		agents = append(agents, models.Agent{
			ID:    u.ID,
			Name:  u.Name,
			Color: agentPalette[len(agents)%len(agentPalette)],
			Phone: u.Phone,
		})
	}
	return agents
}

func toProperties(remote []remoteProperty) []models.Property {
	var properties []models.Property
	for _, p := range remote {
		if p.ID == "" {
			continue
		}
		address := p.Location
		if address == "" {
			address = p.PropertyTitle
		}
		t, err := models.ParsePropertyType(p.Type)
		if err != nil {
			t = models.PropertyApartment
		}
		properties = append(properties, models.Property{ID: p.ID, Address: address, Type: t, Price: p.Price})
	}
	return properties
}
