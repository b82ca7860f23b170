package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"viewing-scheduler-server/internal/models"
)

func TestSeededCatalog(t *testing.T) {
	c := NewSeeded()

	if got := len(c.Agents()); got != 4 {
		t.Fatalf("expected 4 agents, got %d", got)
	}
	if got := len(c.Properties()); got != 4 {
		t.Fatalf("expected 4 properties, got %d", got)
	}
	if c.DefaultAgentID() != "1" || c.DefaultPropertyID() != "1" {
		t.Fatalf("unexpected defaults %q %q", c.DefaultAgentID(), c.DefaultPropertyID())
	}
	a, ok := c.Agent("2")
	if !ok || a.Name != "Nency Chauhan" || a.Color != "bg-green-500" {
		t.Fatalf("unexpected agent 2: %+v %v", a, ok)
	}
	if _, ok := c.Property("99"); ok {
		t.Fatal("expected unknown property to be missing")
	}
}

func TestEmptyCatalogDefaults(t *testing.T) {
	c := New(nil, nil)
	if c.DefaultAgentID() != "" || c.DefaultPropertyID() != "" {
		t.Fatal("expected empty defaults")
	}
}

func TestAgentsReturnsCopy(t *testing.T) {
	c := NewSeeded()
	agents := c.Agents()
	agents[0].Name = "changed"
	if a, _ := c.Agent("1"); a.Name != "Parth Chauhan" {
		t.Fatalf("catalog mutated through returned slice: %+v", a)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `agents:
  - id: a1
    name: Hetal Desai
    color: bg-blue-500
    phone: "+91 90000 00001"
properties:
  - id: p1
    address: 5 Lake View, Navrangpura, Ahmedabad
    type: condo
    price: "₹40,00,000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DefaultAgentID() != "a1" || c.DefaultPropertyID() != "p1" {
		t.Fatalf("unexpected defaults %q %q", c.DefaultAgentID(), c.DefaultPropertyID())
	}
	p, _ := c.Property("p1")
	if p.Type != models.PropertyCondo {
		t.Fatalf("expected Condo, got %q", p.Type)
	}
}

func TestLoadFileRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "properties:\n  - id: p1\n    type: castle\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unknown property type")
	}
}

func newBackend(t *testing.T, users, properties string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/getAll", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(users))
	})
	mux.HandleFunc("/api/property/getAll", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(properties))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSyncReplacesCatalog(t *testing.T) {
	srv := newBackend(t,
		`{"success":true,"data":[
			{"_id":"u1","name":"Admin","role":"admin"},
			{"_id":"u2","name":"Mike Davis","role":"agent","phone":"+91 555 345 6789"},
			{"_id":"u3","name":"Riya Shah","role":"Agent"}]}`,
		`[{"_id":"p9","propertyTitle":"Villa","location":"Bopal, Ahmedabad","price":"₹1,20,00,000","type":"House"},
		  {"_id":"p10","propertyTitle":"Studio","price":"₹20,00,000","type":"Loft"}]`,
	)

	c := NewSeeded()
	if err := NewSyncer(c, srv.URL+"/api").Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	agents := c.Agents()
	if len(agents) != 2 || agents[0].ID != "u2" || agents[1].ID != "u3" {
		t.Fatalf("expected only agents, got %+v", agents)
	}
	if agents[0].Color != "bg-red-500" || agents[1].Color != "bg-green-500" {
		t.Fatalf("unexpected colors %+v", agents)
	}
	props := c.Properties()
	if len(props) != 2 || props[0].Address != "Bopal, Ahmedabad" || props[0].Type != models.PropertyHouse {
		t.Fatalf("unexpected properties %+v", props)
	}
	if props[1].Address != "Studio" || props[1].Type != models.PropertyApartment {
		t.Fatalf("unexpected fallback property %+v", props[1])
	}
	if c.DefaultAgentID() != "u2" {
		t.Fatalf("default agent not updated: %q", c.DefaultAgentID())
	}
}

func TestSyncFailureKeepsCatalog(t *testing.T) {
	srv := newBackend(t,
		`{"success":false,"message":"database down","data":[]}`,
		`{"success":true,"data":[]}`,
	)

	c := NewSeeded()
	if err := NewSyncer(c, srv.URL+"/api/").Sync(context.Background()); err == nil {
		t.Fatal("expected sync error")
	}
	if len(c.Agents()) != 4 || c.DefaultAgentID() != "1" {
		t.Fatal("failed sync must keep the previous catalog")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	srv := newBackend(t, `[]`, `[]`)
	s := NewSyncer(NewSeeded(), srv.URL+"/api/")
	if err := s.Start(context.Background(), "not a cron"); err == nil {
		t.Fatal("expected invalid cron error")
	}
	s.Stop()
}

func TestSyncPropertiesWithoutUserEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/property/getAll", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"_id":"p7","propertyTitle":"Row House","location":"Satellite, Ahmedabad","price":"₹65,00,000","type":"Townhouse"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewSeeded()
	err := NewSyncer(c, srv.URL+"/api/").Sync(context.Background())
	if err == nil || !strings.Contains(err.Error(), "fetch agents") {
		t.Fatalf("expected the agents fetch to fail, got %v", err)
	}

	props := c.Properties()
	if len(props) != 1 || props[0].ID != "p7" || props[0].Type != models.PropertyTownhouse {
		t.Fatalf("properties should sync on their own, got %+v", props)
	}
	if len(c.Agents()) != 4 || c.DefaultAgentID() != "1" {
		t.Fatalf("agents must keep the previous entries, got %+v", c.Agents())
	}
}
