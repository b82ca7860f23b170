package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"viewing-scheduler-server/internal/calendar"
	"viewing-scheduler-server/internal/catalog"
	"viewing-scheduler-server/internal/ics"
	"viewing-scheduler-server/internal/logging"
	"viewing-scheduler-server/internal/store"
	"viewing-scheduler-server/internal/utils"
)

// DefaultView is the view rendered when ?view= is omitted.
const DefaultView = calendar.ViewMonth

// CalendarHandler renders appointments onto the day, week and month grids.
type CalendarHandler struct {
	Store    store.Repository
	Catalog  *catalog.Catalog
	Location *time.Location
	Now      func() time.Time
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(repo store.Repository, cat *catalog.Catalog, loc *time.Location) *CalendarHandler {
	return &CalendarHandler{Store: repo, Catalog: cat, Location: loc, Now: time.Now}
}

// navigation is the state echoed back so the dashboard can step from it.
type navigation struct {
	calendar.Projection
	Prev  string `json:"prev"`
	Next  string `json:"next"`
	Today string `json:"today"`
}

// GetCalendar renders ?view= around ?date= (default: month, today).
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	mode, ref, ok := h.viewAndDate(c)
	if !ok {
		return
	}
	h.render(c, mode, ref)
}

// Navigate steps ?date= one unit of ?view= in ?direction= and renders the
// result.
func (h *CalendarHandler) Navigate(c *gin.Context) {
	mode, ref, ok := h.viewAndDate(c)
	if !ok {
		return
	}
	dir, err := calendar.ParseDirection(c.Query("direction"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	ref, err = calendar.Navigate(ref, mode, dir)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	h.render(c, mode, ref)
}

// ExportICS serves every appointment as an iCalendar feed.
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	appointments, err := h.Store.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to export appointments")
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="viewings.ics"`)
	err = ics.Write(c.Writer, appointments, ics.Options{
		Location: h.Location,
		Name:     "Property Viewings",
		Lookup:   h.Catalog,
		Now:      h.Now,
	})
	if err != nil {
		logging.Error("ics export failed", err)
	}
}

func (h *CalendarHandler) render(c *gin.Context, mode calendar.ViewMode, ref time.Time) {
	appointments, err := h.Store.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch appointments")
		return
	}

	projection, err := calendar.Project(mode, ref, appointments, h.Catalog)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	logging.Debug("calendar rendered", "view", mode, "date", projection.Date, "appointments", projection.Count())

	prev, _ := calendar.Navigate(ref, mode, calendar.Prev)
	next, _ := calendar.Navigate(ref, mode, calendar.Next)

	utils.Success(c, "Calendar rendered successfully", navigation{
		Projection: projection,
		Prev:       calendar.FormatLocalDate(prev),
		Next:       calendar.FormatLocalDate(next),
		Today:      calendar.FormatLocalDate(h.today()),
	})
}

func (h *CalendarHandler) viewAndDate(c *gin.Context) (calendar.ViewMode, time.Time, bool) {
	mode := DefaultView
	if raw := c.Query("view"); raw != "" {
		m, err := calendar.ParseViewMode(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return "", time.Time{}, false
		}
		mode = m
	}

	ref := h.today()
	if raw := c.Query("date"); raw != "" {
		day, err := parseDay(raw, h.Location)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return "", time.Time{}, false
		}
		ref = day
	}
	return mode, ref, true
}

func (h *CalendarHandler) today() time.Time {
	loc := h.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	y, m, d := now().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
