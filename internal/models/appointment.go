package models

import (
	"errors"
	"fmt"
	"strings"
)

// AppointmentStatus represents the status of a property viewing
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ErrInvalidStatus is returned for a status outside the known set.
var ErrInvalidStatus = errors.New("invalid appointment status")

// Statuses lists every status in the order the editor offers them.
var Statuses = []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus converts a raw string into an AppointmentStatus.
func ParseStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Appointment defaults applied on creation.
const (
	DefaultTitle    = "Property Viewing"
	DefaultDuration = 60
	DefaultTime     = "10:00"
)

// Appointment represents a scheduled property viewing.
//
// Date is the local calendar date ("2006-01-02") in the display timezone and
// Time the wall-clock start ("15:04"). Seq records insertion order.
type Appointment struct {
	BaseModel
	Seq         int64             `gorm:"uniqueIndex" json:"-"`
	Title       string            `gorm:"size:255" json:"title"`
	Date        string            `gorm:"size:10;index" json:"date"`
	Time        string            `gorm:"size:5" json:"time"`
	Duration    int               `json:"duration"`
	AgentID     string            `gorm:"size:36;index" json:"agentId"`
	PropertyID  string            `gorm:"size:36;index" json:"propertyId"`
	ClientName  string            `gorm:"size:255" json:"clientName"`
	ClientPhone string            `gorm:"size:50" json:"clientPhone"`
	Status      AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
}

// AppointmentPatch carries a partial appointment. Nil fields are left alone.
type AppointmentPatch struct {
	Title       *string            `json:"title,omitempty"`
	Date        *string            `json:"date,omitempty"`
	Time        *string            `json:"time,omitempty" binding:"omitempty,hhmm"`
	Duration    *int               `json:"duration,omitempty" binding:"omitempty,step15"`
	AgentID     *string            `json:"agentId,omitempty"`
	PropertyID  *string            `json:"propertyId,omitempty"`
	ClientName  *string            `json:"clientName,omitempty"`
	ClientPhone *string            `json:"clientPhone,omitempty"`
	Status      *AppointmentStatus `json:"status,omitempty" binding:"omitempty,appointment_status"`
	Notes       *string            `json:"notes,omitempty"`
}

// Apply merges the non-nil fields of p into a.
func (p AppointmentPatch) Apply(a *Appointment) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	if p.AgentID != nil {
		a.AgentID = *p.AgentID
	}
	if p.PropertyID != nil {
		a.PropertyID = *p.PropertyID
	}
	if p.ClientName != nil {
		a.ClientName = *p.ClientName
	}
	if p.ClientPhone != nil {
		a.ClientPhone = *p.ClientPhone
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
}

// Empty reports whether the patch carries no field at all.
func (p AppointmentPatch) Empty() bool {
	return p == AppointmentPatch{}
}

// PatchFrom builds a patch that sets every field of a.
func PatchFrom(a Appointment) AppointmentPatch {
	status := a.Status
	return AppointmentPatch{
		Title:       &a.Title,
		Date:        &a.Date,
		Time:        &a.Time,
		Duration:    &a.Duration,
		AgentID:     &a.AgentID,
		PropertyID:  &a.PropertyID,
		ClientName:  &a.ClientName,
		ClientPhone: &a.ClientPhone,
		Status:      &status,
		Notes:       &a.Notes,
	}
}
