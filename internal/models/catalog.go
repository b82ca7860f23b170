package models

import (
	"fmt"
	"strings"
)

// Agent is a staff member who can be assigned to a viewing.
// Color is a display tag only.
type Agent struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
	Phone string `yaml:"phone" json:"phone"`
}

// PropertyType enum
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyHouse     PropertyType = "House"
	PropertyCondo     PropertyType = "Condo"
	PropertyTownhouse PropertyType = "Townhouse"
)

// ParsePropertyType matches raw case-insensitively against the known types.
func ParsePropertyType(raw string) (PropertyType, error) {
	for _, t := range []PropertyType{PropertyApartment, PropertyHouse, PropertyCondo, PropertyTownhouse} {
		if strings.EqualFold(strings.TrimSpace(raw), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid property type %q", raw)
}

// Property is a listing available for viewing. Price is a display string.
type Property struct {
	ID      string       `yaml:"id" json:"id"`
	Address string       `yaml:"address" json:"address"`
	Type    PropertyType `yaml:"type" json:"type"`
	Price   string       `yaml:"price" json:"price"`
}
