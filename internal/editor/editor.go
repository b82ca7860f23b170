// Package editor implements the appointment form: open it blank or on an
// existing appointment, validate, then submit, delete or cancel.
package editor

import (
	"context"
	"errors"
	"time"

	"viewing-scheduler-server/internal/calendar"
	"viewing-scheduler-server/internal/models"
	"viewing-scheduler-server/internal/store"
	"viewing-scheduler-server/internal/utils"
)

var (
	ErrClosed     = errors.New("editor is closed")
	ErrNotEditing = errors.New("editor is not editing an existing appointment")
)

// Mode is the editor state.
type Mode int

const (
	Closed Mode = iota
	Creating
	Editing
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "create"
	case Editing:
		return "edit"
	}
	return "closed"
}

// Form holds the editable fields. Notes is the only optional one.
type Form struct {
	Title       string                   `json:"title" binding:"required"`
	Date        string                   `json:"date" binding:"required,ymd"`
	Time        string                   `json:"time" binding:"required,hhmm"`
	Duration    int                      `json:"duration" binding:"required,step15"`
	AgentID     string                   `json:"agentId" binding:"required"`
	PropertyID  string                   `json:"propertyId" binding:"required"`
	ClientName  string                   `json:"clientName" binding:"required"`
	ClientPhone string                   `json:"clientPhone" binding:"required"`
	Status      models.AppointmentStatus `json:"status" binding:"required,appointment_status"`
	Notes       string                   `json:"notes"`
}

func formFrom(a models.Appointment) Form {
	return Form{
		Title:       a.Title,
		Date:        a.Date,
		Time:        a.Time,
		Duration:    a.Duration,
		AgentID:     a.AgentID,
		PropertyID:  a.PropertyID,
		ClientName:  a.ClientName,
		ClientPhone: a.ClientPhone,
		Status:      a.Status,
		Notes:       a.Notes,
	}
}

func (f Form) patch() models.AppointmentPatch {
	return models.PatchFrom(models.Appointment{
		Title:       f.Title,
		Date:        f.Date,
		Time:        f.Time,
		Duration:    f.Duration,
		AgentID:     f.AgentID,
		PropertyID:  f.PropertyID,
		ClientName:  f.ClientName,
		ClientPhone: f.ClientPhone,
		Status:      f.Status,
		Notes:       f.Notes,
	})
}

// Editor is one open-edit-close cycle of the appointment form. It is not
// safe for concurrent use; handlers create one per request.
type Editor struct {
	// Form is the current field values. Callers fill it between Open* and
	// Submit.
	Form Form

	repo     store.Repository
	defaults store.Defaults
	loc      *time.Location
	now      func() time.Time

	mode     Mode
	original models.Appointment
}

// New creates a closed editor writing to repo.
func New(repo store.Repository, defaults store.Defaults, loc *time.Location) *Editor {
	if loc == nil {
		loc = time.Local
	}
	return &Editor{repo: repo, defaults: defaults, loc: loc, now: time.Now}
}

func (e *Editor) Mode() Mode { return e.mode }

// Original is the appointment being edited; ok is false outside edit mode.
func (e *Editor) Original() (models.Appointment, bool) {
	if e.mode != Editing {
		return models.Appointment{}, false
	}
	return e.original, true
}

// OpenCreate opens a blank form prefilled with today's date, 10:00, one hour,
// the first agent and property and the scheduled status.
func (e *Editor) OpenCreate() {
	e.mode = Creating
	e.original = models.Appointment{}
	e.Form = Form{
		Title:    models.DefaultTitle,
		Date:     calendar.FormatLocalDate(e.now().In(e.loc)),
		Time:     models.DefaultTime,
		Duration: models.DefaultDuration,
		Status:   models.StatusScheduled,
	}
	if e.defaults != nil {
		e.Form.AgentID = e.defaults.DefaultAgentID()
		e.Form.PropertyID = e.defaults.DefaultPropertyID()
	}
}

// OpenEdit opens the form on a.
func (e *Editor) OpenEdit(a models.Appointment) {
	e.mode = Editing
	e.original = a
	e.Form = formFrom(a)
}

// Submit validates the form and writes it to the store. A form that fails
// validation leaves the editor open; otherwise the editor closes whether or
// not the store accepted the write.
func (e *Editor) Submit(ctx context.Context) (models.Appointment, error) {
	if e.mode == Closed {
		return models.Appointment{}, ErrClosed
	}
	if err := utils.Validate(e.Form); err != nil {
		return models.Appointment{}, err
	}

	defer e.close()
	if e.mode == Creating {
		return e.repo.Create(ctx, e.Form.patch())
	}
	return e.repo.Update(ctx, e.original.ID, e.Form.patch())
}

// Delete removes the appointment being edited and closes the editor.
func (e *Editor) Delete(ctx context.Context) error {
	switch e.mode {
	case Closed:
		return ErrClosed
	case Creating:
		return ErrNotEditing
	}
	defer e.close()
	return e.repo.Delete(ctx, e.original.ID)
}

// Cancel closes the editor without touching the store.
func (e *Editor) Cancel() {
	e.close()
}

func (e *Editor) close() {
	e.mode = Closed
	e.original = models.Appointment{}
	e.Form = Form{}
}
