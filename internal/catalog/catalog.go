// Package catalog holds the agents and properties appointments refer to.
package catalog

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"viewing-scheduler-server/internal/models"
)

// Catalog is the read-mostly set of agents and properties, in declaration
// order. It is safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	agents     []models.Agent
	properties []models.Property
}

// New creates a catalog holding the given entries.
func New(agents []models.Agent, properties []models.Property) *Catalog {
	c := &Catalog{}
	c.Replace(agents, properties)
	return c
}

// NewSeeded creates a catalog with the built-in agents and properties.
func NewSeeded() *Catalog {
	return New(models.SeedAgents(), models.SeedProperties())
}

// File is the on-disk form of a catalog.
type File struct {
	Agents     []models.Agent    `yaml:"agents"`
	Properties []models.Property `yaml:"properties"`
}

// LoadFile reads a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, p := range f.Properties {
		t, err := models.ParsePropertyType(string(p.Type))
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.ID, err)
		}
		f.Properties[i].Type = t
	}
	return New(f.Agents, f.Properties), nil
}

// Replace swaps the whole catalog at once.
func (c *Catalog) Replace(agents []models.Agent, properties []models.Property) {
	a := append([]models.Agent(nil), agents...)
	p := append([]models.Property(nil), properties...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.agents = a
	c.properties = p
}

// ReplaceAgents swaps the agents and keeps the properties.
func (c *Catalog) ReplaceAgents(agents []models.Agent) {
	a := append([]models.Agent(nil), agents...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.agents = a
}

// ReplaceProperties swaps the properties and keeps the agents.
func (c *Catalog) ReplaceProperties(properties []models.Property) {
	p := append([]models.Property(nil), properties...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties = p
}

func (c *Catalog) Agents() []models.Agent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Agent{}, c.agents...)
}

func (c *Catalog) Properties() []models.Property {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Property{}, c.properties...)
}

func (c *Catalog) Agent(id string) (models.Agent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.agents {
		if a.ID == id {
			return a, true
		}
	}
	return models.Agent{}, false
}

func (c *Catalog) Property(id string) (models.Property, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.properties {
		if p.ID == id {
			return p, true
		}
	}
	return models.Property{}, false
}

// DefaultAgentID is the first agent, or "" for an empty catalog.
func (c *Catalog) DefaultAgentID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.agents) == 0 {
		return ""
	}
	return c.agents[0].ID
}

// DefaultPropertyID is the first property, or "" for an empty catalog.
func (c *Catalog) DefaultPropertyID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.properties) == 0 {
		return ""
	}
	return c.properties[0].ID
}
