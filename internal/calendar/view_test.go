package calendar

import (
	"testing"

	"viewing-scheduler-server/internal/models"
)

type stubLookup struct {
	agents     map[string]models.Agent
	properties map[string]models.Property
}

func (s stubLookup) Agent(id string) (models.Agent, bool) {
	a, ok := s.agents[id]
	return a, ok
}

func (s stubLookup) Property(id string) (models.Property, bool) {
	p, ok := s.properties[id]
	return p, ok
}

func seedLookup() stubLookup {
	l := stubLookup{agents: map[string]models.Agent{}, properties: map[string]models.Property{}}
	for _, a := range models.SeedAgents() {
		l.agents[a.ID] = a
	}
	for _, p := range models.SeedProperties() {
		l.properties[p.ID] = p
	}
	return l
}

func scenarioAppointment() models.Appointment {
	return models.Appointment{
		BaseModel:  models.BaseModel{ID: "1"},
		Title:      "Property Viewing",
		Date:       "2025-01-15",
		Time:       "10:00",
		Duration:   60,
		AgentID:    "1",
		PropertyID: "1",
		ClientName: "Alpesh Patel",
		Status:     models.StatusScheduled,
	}
}

func findCell(t *testing.T, m MonthView, day int) MonthCell {
	t.Helper()
	for _, c := range m.Cells {
		if !c.Empty && c.Day == day {
			return c
		}
	}
	t.Fatalf("no cell for day %d", day)
	return MonthCell{}
}

func TestMonthViewScenario(t *testing.T) {
	appts := []models.Appointment{scenarioAppointment()}
	m := Month(date(t, "2025-01-01"), appts, seedLookup())

	if len(m.Weekdays) != 7 || m.Weekdays[0] != "Sun" {
		t.Fatalf("unexpected weekday header %v", m.Weekdays)
	}
	if len(m.Cells) != 3+31 {
		t.Fatalf("expected 34 cells, got %d", len(m.Cells))
	}
	cell := findCell(t, m, 15)
	if len(cell.Appointments) != 1 {
		t.Fatalf("expected 1 appointment on the 15th, got %d", len(cell.Appointments))
	}
	if got := cell.Appointments[0].Label; got != "10:00 - Alpesh Patel" {
		t.Fatalf("unexpected summary %q", got)
	}
	if cell.Appointments[0].AgentColor != "bg-red-500" {
		t.Fatalf("expected agent color, got %q", cell.Appointments[0].AgentColor)
	}
	if other := findCell(t, m, 16); len(other.Appointments) != 0 {
		t.Fatalf("expected empty 16th, got %d", len(other.Appointments))
	}
}

func TestMonthViewOverflow(t *testing.T) {
	var appts []models.Appointment
	for _, id := range []string{"a", "b", "c", "d"} {
		appts = append(appts, models.Appointment{BaseModel: models.BaseModel{ID: id}, Date: "2025-01-20", Time: "09:00", ClientName: id})
	}
	cell := findCell(t, Month(date(t, "2025-01-20"), appts, nil), 20)

	if len(cell.Appointments) != MaxMonthSummaries {
		t.Fatalf("expected %d summaries, got %d", MaxMonthSummaries, len(cell.Appointments))
	}
	if cell.Appointments[0].ID != "a" || cell.Appointments[1].ID != "b" {
		t.Fatalf("summaries not in insertion order: %+v", cell.Appointments)
	}
	if cell.More != 2 || cell.MoreLabel != "+2 more" {
		t.Fatalf("expected +2 more, got %d %q", cell.More, cell.MoreLabel)
	}
}

func TestWeekViewScenario(t *testing.T) {
	w := Week(date(t, "2025-01-15"), []models.Appointment{scenarioAppointment()}, seedLookup())

	if len(w.Columns) != 7 || len(w.Rows) != 12 {
		t.Fatalf("expected 7 columns x 12 rows, got %d x %d", len(w.Columns), len(w.Rows))
	}
	col := -1
	for i, c := range w.Columns {
		if c.Date == "2025-01-15" {
			col = i
		}
	}
	if col != 3 {
		t.Fatalf("expected Jan 15 in column 3 (Wednesday), got %d", col)
	}
	for _, row := range w.Rows {
		for i, cell := range row.Cells {
			want := 0
			if row.Label == "10:00" && i == col {
				want = 1
			}
			if len(cell) != want {
				t.Fatalf("row %s col %d: expected %d, got %d", row.Label, i, want, len(cell))
			}
		}
	}
}

func TestDayViewScenario(t *testing.T) {
	appts := []models.Appointment{scenarioAppointment()}

	if n := (Projection{Day: ptr(Day(date(t, "2025-01-16"), appts, seedLookup()))}).Count(); n != 0 {
		t.Fatalf("expected empty day view for Jan 16, got %d", n)
	}

	d := Day(date(t, "2025-01-15"), appts, seedLookup())
	if len(d.Rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(d.Rows))
	}
	row := d.Rows[10-BusinessHoursStart]
	if row.Hour != 10 || len(row.Cards) != 1 {
		t.Fatalf("expected one card at 10:00, got %+v", row)
	}
	c := row.Cards[0]
	if c.TimeLabel != "10:00 (60 min)" {
		t.Fatalf("unexpected time label %q", c.TimeLabel)
	}
	if c.AgentName != "Parth Chauhan" || c.PropertyAddress != "12 Shivalik Residency, Science City Road, Ahmedabad" {
		t.Fatalf("references not resolved: %+v", c)
	}
}

func TestDayViewDegradesOnUnknownReferences(t *testing.T) {
	a := scenarioAppointment()
	a.AgentID, a.PropertyID = "99", "99"

	d := Day(date(t, "2025-01-15"), []models.Appointment{a}, seedLookup())
	c := d.Rows[10-BusinessHoursStart].Cards[0]
	if c.AgentName != "" || c.PropertyAddress != "" || c.AgentColor != "" {
		t.Fatalf("expected blank references, got %+v", c)
	}
}

func TestOutsideBusinessHoursOnlyInMonthView(t *testing.T) {
	late := scenarioAppointment()
	late.Time = "22:00"
	appts := []models.Appointment{late}
	ref := date(t, "2025-01-15")

	for _, mode := range []ViewMode{ViewMonth, ViewWeek, ViewDay} {
		p, err := Project(mode, ref, appts, seedLookup())
		if err != nil {
			t.Fatalf("project %s: %v", mode, err)
		}
		want := 0
		if mode == ViewMonth {
			want = 1
		}
		if p.Count() != want {
			t.Fatalf("%s view: expected %d appointments, got %d", mode, want, p.Count())
		}
	}
}

func TestProjectTitles(t *testing.T) {
	ref := date(t, "2025-01-15")
	tests := map[ViewMode]string{
		ViewDay:   "Wednesday, January 15, 2025",
		ViewWeek:  "January 15, 2025",
		ViewMonth: "January 2025",
	}
	for mode, want := range tests {
		p, err := Project(mode, ref, nil, nil)
		if err != nil {
			t.Fatalf("project %s: %v", mode, err)
		}
		if p.Title != want {
			t.Errorf("%s title = %q, want %q", mode, p.Title, want)
		}
		if p.Date != "2025-01-15" {
			t.Errorf("%s date = %q", mode, p.Date)
		}
	}
	if _, err := Project(ViewMode("year"), ref, nil, nil); err == nil {
		t.Fatal("expected error for unknown view mode")
	}
}

func ptr[T any](v T) *T { return &v }
