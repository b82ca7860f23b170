// Package ics exports appointments as an iCalendar feed.
package ics

import (
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"viewing-scheduler-server/internal/calendar"
	"viewing-scheduler-server/internal/logging"
	"viewing-scheduler-server/internal/models"
)

// UIDDomain is appended to appointment ids to form event UIDs.
const UIDDomain = "viewing-scheduler"

// Options controls how appointments become events.
type Options struct {
	// Location is the timezone appointment dates and times are written in.
	Location *time.Location
	Name     string
	Lookup   calendar.Lookup
	Now      func() time.Time
}

// Build turns appointments into a calendar, one VEVENT each. Appointments
// with a time that does not parse become all-day events.
func Build(appointments []models.Appointment, opts Options) *ical.Calendar {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now()
	if opts.Now != nil {
		now = opts.Now()
	}

	cal := ical.NewCalendarFor(UIDDomain)
	cal.SetMethod(ical.MethodPublish)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}
	// "Local" is not an IANA zone name; event times are written in UTC anyway.
	if loc != time.Local && loc.String() != "Local" {
		cal.SetXWRTimezone(loc.String())
	}

	for _, a := range appointments {
		day, err := calendar.ParseLocalDate(a.Date, loc)
		if err != nil {
			logging.Warn("skipping appointment with bad date", "id", a.ID, "date", a.Date)
			continue
		}

		event := cal.AddEvent(a.ID + "@" + UIDDomain)
		event.SetDtStampTime(now)
		if !a.CreatedAt.IsZero() {
			event.SetCreatedTime(a.CreatedAt)
		}
		if !a.UpdatedAt.IsZero() {
			event.SetModifiedAt(a.UpdatedAt)
		}

		if start, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+strings.TrimSpace(a.Time), loc); err == nil {
			duration := a.Duration
			if duration <= 0 {
				duration = models.DefaultDuration
			}
			event.SetStartAt(start)
			event.SetEndAt(start.Add(time.Duration(duration) * time.Minute))
		} else {
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}

		event.SetSummary(summary(a))
		event.SetStatus(eventStatus(a.Status))
		if d := description(a, opts.Lookup); d != "" {
			event.SetDescription(d)
		}
		if opts.Lookup != nil {
			if p, ok := opts.Lookup.Property(a.PropertyID); ok {
				event.SetLocation(p.Address)
			}
		}
	}
	return cal
}

// Write serializes the feed for appointments to w.
func Write(w io.Writer, appointments []models.Appointment, opts Options) error {
	return Build(appointments, opts).SerializeTo(w)
}

func eventStatus(s models.AppointmentStatus) ical.ObjectStatus {
	switch s {
	case models.StatusConfirmed, models.StatusCompleted:
		return ical.ObjectStatusConfirmed
	case models.StatusCancelled:
		return ical.ObjectStatusCancelled
	}
	return ical.ObjectStatusTentative
}

func summary(a models.Appointment) string {
	title := a.Title
	if title == "" {
		title = models.DefaultTitle
	}
	if a.ClientName == "" {
		return title
	}
	return title + " - " + a.ClientName
}

func description(a models.Appointment, lookup calendar.Lookup) string {
	var lines []string
	if a.ClientName != "" {
		client := "Client: " + a.ClientName
		if a.ClientPhone != "" {
			client += " (" + a.ClientPhone + ")"
		}
		lines = append(lines, client)
	}
	if lookup != nil {
		if agent, ok := lookup.Agent(a.AgentID); ok {
			lines = append(lines, "Agent: "+agent.Name)
		}
	}
	if a.Notes != "" {
		lines = append(lines, "Notes: "+a.Notes)
	}
	return strings.Join(lines, "\n")
}
