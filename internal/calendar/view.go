package calendar

import (
	"fmt"
	"time"

	"viewing-scheduler-server/internal/models"
)

// MaxMonthSummaries is how many appointments a month cell lists before it
// collapses the rest into "+N more".
const MaxMonthSummaries = 2

// WeekdayLabels are the header labels of the month grid, Sunday first.
var WeekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Lookup resolves appointment references for display. Missing entries are
// rendered blank.
type Lookup interface {
	Agent(id string) (models.Agent, bool)
	Property(id string) (models.Property, bool)
}

// Summary is the compact form of an appointment shown in month and week cells.
type Summary struct {
	ID         string                   `json:"id"`
	Time       string                   `json:"time"`
	ClientName string                   `json:"clientName"`
	Label      string                   `json:"label"`
	AgentColor string                   `json:"agentColor,omitempty"`
	Status     models.AppointmentStatus `json:"status"`
}

// MonthCell is one square of the month grid. Empty cells pad the first week.
type MonthCell struct {
	Empty        bool      `json:"empty"`
	Date         string    `json:"date,omitempty"`
	Day          int       `json:"day,omitempty"`
	Appointments []Summary `json:"appointments,omitempty"`
	More         int       `json:"more,omitempty"`
	MoreLabel    string    `json:"moreLabel,omitempty"`
}

// MonthView is the 7-column month grid.
type MonthView struct {
	Year     int         `json:"year"`
	Month    time.Month  `json:"month"`
	Weekdays []string    `json:"weekdays"`
	Cells    []MonthCell `json:"cells"`
}

// WeekColumn heads one day column of the week grid.
type WeekColumn struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Day     int    `json:"day"`
}

// WeekRow is one hour band across the seven day columns.
type WeekRow struct {
	Hour  int         `json:"hour"`
	Label string      `json:"label"`
	Cells [][]Summary `json:"cells"`
}

// WeekView is the time column plus seven day columns over business hours.
type WeekView struct {
	Columns []WeekColumn `json:"columns"`
	Rows    []WeekRow    `json:"rows"`
}

// Card is the expanded form of an appointment in the day view.
type Card struct {
	ID              string                   `json:"id"`
	Time            string                   `json:"time"`
	Duration        int                      `json:"duration"`
	TimeLabel       string                   `json:"timeLabel"`
	ClientName      string                   `json:"clientName"`
	Status          models.AppointmentStatus `json:"status"`
	PropertyAddress string                   `json:"propertyAddress"`
	AgentName       string                   `json:"agentName"`
	AgentColor      string                   `json:"agentColor,omitempty"`
}

// DayRow is one hour band of the day view.
type DayRow struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Cards []Card `json:"cards"`
}

// DayView lists the selected date hour by hour.
type DayView struct {
	Date string   `json:"date"`
	Rows []DayRow `json:"rows"`
}

// Projection is the rendered calendar for one view mode. Exactly one of
// Month, Week and Day is set.
type Projection struct {
	View  ViewMode   `json:"view"`
	Date  string     `json:"date"`
	Title string     `json:"title"`
	Month *MonthView `json:"month,omitempty"`
	Week  *WeekView  `json:"week,omitempty"`
	Day   *DayView   `json:"day,omitempty"`
}

// Project renders appointments for the given mode around ref.
func Project(mode ViewMode, ref time.Time, appointments []models.Appointment, lookup Lookup) (Projection, error) {
	p := Projection{View: mode, Date: FormatLocalDate(ref), Title: Title(mode, ref)}
	switch mode {
	case ViewMonth:
		m := Month(ref, appointments, lookup)
		p.Month = &m
	case ViewWeek:
		w := Week(ref, appointments, lookup)
		p.Week = &w
	case ViewDay:
		d := Day(ref, appointments, lookup)
		p.Day = &d
	default:
		return Projection{}, fmt.Errorf("%w: %q", ErrInvalidViewMode, mode)
	}
	return p, nil
}

// Title is the header shown above the grid.
func Title(mode ViewMode, ref time.Time) string {
	switch mode {
	case ViewDay:
		return ref.Format("Monday, January 2, 2006")
	case ViewWeek:
		return ref.Format("January 2, 2006")
	default:
		return ref.Format("January 2006")
	}
}

// Month renders the month containing ref.
func Month(ref time.Time, appointments []models.Appointment, lookup Lookup) MonthView {
	days := DaysInMonth(ref)
	view := MonthView{
		Year:     ref.Year(),
		Month:    ref.Month(),
		Weekdays: WeekdayLabels,
		Cells:    make([]MonthCell, 0, len(days)),
	}

	for _, day := range days {
		if day.IsZero() {
			view.Cells = append(view.Cells, MonthCell{Empty: true})
			continue
		}
		onDay := AppointmentsOnDate(day, appointments)
		cell := MonthCell{Date: FormatLocalDate(day), Day: day.Day()}
		for i, a := range onDay {
			if i == MaxMonthSummaries {
				break
			}
			s := summarize(a, lookup)
			s.Label = fmt.Sprintf("%s - %s", a.Time, a.ClientName)
			cell.Appointments = append(cell.Appointments, s)
		}
		if n := len(onDay) - MaxMonthSummaries; n > 0 {
			cell.More = n
			cell.MoreLabel = fmt.Sprintf("+%d more", n)
		}
		view.Cells = append(view.Cells, cell)
	}
	return view
}

// Week renders the week containing ref over business hours.
func Week(ref time.Time, appointments []models.Appointment, lookup Lookup) WeekView {
	days := WeekDays(ref)
	view := WeekView{Columns: make([]WeekColumn, len(days))}

	perDay := make([][]models.Appointment, len(days))
	for i, d := range days {
		view.Columns[i] = WeekColumn{Date: FormatLocalDate(d), Weekday: d.Format("Mon"), Day: d.Day()}
		perDay[i] = AppointmentsOnDate(d, appointments)
	}

	for _, hour := range BusinessHours() {
		row := WeekRow{Hour: hour, Label: hourLabel(hour), Cells: make([][]Summary, len(days))}
		for i := range days {
			cell := []Summary{}
			for _, a := range appointmentsInHour(perDay[i], hour) {
				s := summarize(a, lookup)
				s.Label = a.ClientName
				cell = append(cell, s)
			}
			row.Cells[i] = cell
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// Day renders ref's date hour by hour over business hours.
func Day(ref time.Time, appointments []models.Appointment, lookup Lookup) DayView {
	onDay := AppointmentsOnDate(ref, appointments)
	view := DayView{Date: FormatLocalDate(ref)}

	for _, hour := range BusinessHours() {
		row := DayRow{Hour: hour, Label: hourLabel(hour), Cards: []Card{}}
		for _, a := range appointmentsInHour(onDay, hour) {
			row.Cards = append(row.Cards, card(a, lookup))
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// Count returns how many appointments a projection displays.
func (p Projection) Count() int {
	n := 0
	switch {
	case p.Month != nil:
		for _, c := range p.Month.Cells {
			n += len(c.Appointments) + c.More
		}
	case p.Week != nil:
		for _, r := range p.Week.Rows {
			for _, c := range r.Cells {
				n += len(c)
			}
		}
	case p.Day != nil:
		for _, r := range p.Day.Rows {
			n += len(r.Cards)
		}
	}
	return n
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%d:00", hour)
}

func summarize(a models.Appointment, lookup Lookup) Summary {
	s := Summary{ID: a.ID, Time: a.Time, ClientName: a.ClientName, Status: a.Status}
	if lookup != nil {
		if agent, ok := lookup.Agent(a.AgentID); ok {
			s.AgentColor = agent.Color
		}
	}
	return s
}

func card(a models.Appointment, lookup Lookup) Card {
	c := Card{
		ID:         a.ID,
		Time:       a.Time,
		Duration:   a.Duration,
		TimeLabel:  fmt.Sprintf("%s (%d min)", a.Time, a.Duration),
		ClientName: a.ClientName,
		Status:     a.Status,
	}
	if lookup == nil {
		return c
	}
	if agent, ok := lookup.Agent(a.AgentID); ok {
		c.AgentName = agent.Name
		c.AgentColor = agent.Color
	}
	if property, ok := lookup.Property(a.PropertyID); ok {
		c.PropertyAddress = property.Address
	}
	return c
}
