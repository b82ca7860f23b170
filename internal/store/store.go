// Package store holds the appointment collection. Every implementation keeps
// appointments in insertion order and applies the same creation defaults.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"viewing-scheduler-server/internal/calendar"
	"viewing-scheduler-server/internal/models"
)

// ErrNotFound is returned when no appointment has the requested id.
var ErrNotFound = errors.New("appointment not found")

// Repository is the appointment store used by the handlers and the editor.
type Repository interface {
	Get(ctx context.Context, id string) (models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	Create(ctx context.Context, patch models.AppointmentPatch) (models.Appointment, error)
	Update(ctx context.Context, id string, patch models.AppointmentPatch) (models.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// Seeder loads fixed appointments into an empty store. It reports how many
// were inserted; a store that already holds data is left untouched.
type Seeder interface {
	Seed(ctx context.Context, appointments []models.Appointment) (int, error)
}

// Defaults supplies the agent and property a new appointment falls back to.
type Defaults interface {
	DefaultAgentID() string
	DefaultPropertyID() string
}

// Options configures how a store fills in and normalizes appointments.
type Options struct {
	Defaults Defaults
	Location *time.Location
	Now      func() time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// newAppointment builds the appointment a Create call stores, without id or
// sequence number.
func (o Options) newAppointment(patch models.AppointmentPatch) (models.Appointment, error) {
	var a models.Appointment
	patch.Apply(&a)

	if strings.TrimSpace(a.Title) == "" {
		a.Title = models.DefaultTitle
	}
	if a.Status == "" {
		a.Status = models.StatusScheduled
	}
	if a.Duration <= 0 {
		a.Duration = models.DefaultDuration
	}
	if a.AgentID == "" && o.Defaults != nil {
		a.AgentID = o.Defaults.DefaultAgentID()
	}
	if a.PropertyID == "" && o.Defaults != nil {
		a.PropertyID = o.Defaults.DefaultPropertyID()
	}
	if strings.TrimSpace(a.Date) == "" {
		a.Date = calendar.FormatLocalDate(o.now().In(o.location()))
	}
	if err := o.normalize(&a); err != nil {
		return models.Appointment{}, err
	}
	return a, nil
}

// merge applies patch to a copy of current and normalizes the result.
func (o Options) merge(current models.Appointment, patch models.AppointmentPatch) (models.Appointment, error) {
	updated := current
	patch.Apply(&updated)
	updated.ID = current.ID
	updated.Seq = current.Seq
	if err := o.normalize(&updated); err != nil {
		return models.Appointment{}, err
	}
	return updated, nil
}

func (o Options) normalize(a *models.Appointment) error {
	date, err := calendar.NormalizeDate(a.Date, o.location())
	if err != nil {
		return err
	}
	a.Date = date
	if !a.Status.Valid() {
		return fmt.Errorf("%w %q", models.ErrInvalidStatus, a.Status)
	}
	return nil
}
