// Package calendar projects appointments onto day, week and month grids.
//
// Everything here is a pure function of a reference date, a view mode and a
// slice of appointments; nothing mutates its input.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"viewing-scheduler-server/internal/models"
)

// Week and day views only cover the business-hours window. Appointments whose
// start hour falls outside [BusinessHoursStart, BusinessHoursEnd] are left out
// of those two projections and remain visible in the month view.
const (
	BusinessHoursStart = 8
	BusinessHoursEnd   = 19
)

// DateLayout is the local calendar date form stored on appointments.
const DateLayout = "2006-01-02"

// ViewMode selects which projection is rendered.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// Direction of a navigation step.
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

var (
	ErrInvalidViewMode  = errors.New("invalid view mode")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidDate      = errors.New("invalid date")
)

// ParseViewMode accepts "day", "week" or "month" in any case.
func ParseViewMode(raw string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case ViewDay, ViewWeek, ViewMonth:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, raw)
}

// ParseDirection accepts "prev" or "next" in any case.
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(raw))); d {
	case Prev, Next:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
}

// FormatLocalDate renders t as YYYY-MM-DD in t's own location, so a value
// built for a local day cell never shifts through UTC.
func FormatLocalDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseLocalDate parses a YYYY-MM-DD string as local midnight in loc.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// NormalizeDate returns the local YYYY-MM-DD form of raw. Plain dates are
// kept as they are; RFC 3339 timestamps are first moved into loc.
func NormalizeDate(raw string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		return FormatLocalDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return FormatLocalDate(t.In(loc)), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// DaysInMonth returns the cells of ref's month for a 7-column grid: one zero
// time.Time placeholder per weekday before the 1st (Sunday first), then one
// entry per day. There is no trailing padding.
func DaysInMonth(ref time.Time) []time.Time {
	year, month, _ := ref.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	days := make([]time.Time, offset, offset+last)
	for d := 1; d <= last; d++ {
		days = append(days, time.Date(year, month, d, 0, 0, 0, 0, ref.Location()))
	}
	return days
}

// WeekDays returns the seven dates, Sunday through Saturday, of the week
// containing ref.
func WeekDays(ref time.Time) []time.Time {
	year, month, day := ref.Date()
	sunday := time.Date(year, month, day-int(ref.Weekday()), 0, 0, 0, 0, ref.Location())

	week := make([]time.Time, 7)
	for i := range week {
		week[i] = sunday.AddDate(0, 0, i)
	}
	return week
}

// AppointmentsOnDate keeps the appointments dated on date's local day, in
// their original order.
func AppointmentsOnDate(date time.Time, appointments []models.Appointment) []models.Appointment {
	day := FormatLocalDate(date)
	var out []models.Appointment
	for _, a := range appointments {
		if a.Date == day {
			out = append(out, a)
		}
	}
	return out
}

// Navigate moves ref one unit of mode forwards or backwards. Month steps keep
// the day of month, clamped to the length of the target month.
func Navigate(ref time.Time, mode ViewMode, dir Direction) (time.Time, error) {
	step := 1
	switch dir {
	case Next:
	case Prev:
		step = -1
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	switch mode {
	case ViewDay:
		return ref.AddDate(0, 0, step), nil
	case ViewWeek:
		return ref.AddDate(0, 0, 7*step), nil
	case ViewMonth:
		return addMonthsClamped(ref, step), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidViewMode, mode)
}

func addMonthsClamped(ref time.Time, months int) time.Time {
	year, month, day := ref.Date()
	hour, minute, sec := ref.Clock()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, ref.Location())
	if last := target.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, hour, minute, sec, ref.Nanosecond(), ref.Location())
}

// HourOf extracts the hour from an appointment time such as "09:30". Like the
// dashboard it reads the leading integer before the first colon; ok is false
// when there is none.
func HourOf(clock string) (hour int, ok bool) {
	head, _, _ := strings.Cut(clock, ":")
	head = strings.TrimSpace(head)

	neg := false
	if head != "" && (head[0] == '-' || head[0] == '+') {
		neg = head[0] == '-'
		head = head[1:]
	}
	n, digits := 0, 0
	for _, r := range head {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if digits > 6 {
			break
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// InBusinessHours reports whether the appointment time lands on one of the
// hour bands shown by the week and day views.
func InBusinessHours(clock string) bool {
	h, ok := HourOf(clock)
	return ok && h >= BusinessHoursStart && h <= BusinessHoursEnd
}

// BusinessHours lists the hour bands of the week and day views.
func BusinessHours() []int {
	hours := make([]int, 0, BusinessHoursEnd-BusinessHoursStart+1)
	for h := BusinessHoursStart; h <= BusinessHoursEnd; h++ {
		hours = append(hours, h)
	}
	return hours
}

func appointmentsInHour(appointments []models.Appointment, hour int) []models.Appointment {
	var out []models.Appointment
	for _, a := range appointments {
		if h, ok := HourOf(a.Time); ok && h == hour {
			out = append(out, a)
		}
	}
	return out
}
