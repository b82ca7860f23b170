package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"viewing-scheduler-server/internal/calendar"
	"viewing-scheduler-server/internal/catalog"
	"viewing-scheduler-server/internal/editor"
	"viewing-scheduler-server/internal/logging"
	"viewing-scheduler-server/internal/middleware"
	"viewing-scheduler-server/internal/models"
	"viewing-scheduler-server/internal/store"
	"viewing-scheduler-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Store    store.Repository
	Catalog  *catalog.Catalog
	Location *time.Location
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(repo store.Repository, cat *catalog.Catalog, loc *time.Location) *AppointmentHandler {
	return &AppointmentHandler{Store: repo, Catalog: cat, Location: loc}
}

func (h *AppointmentHandler) newEditor() *editor.Editor {
	return editor.New(h.Store, h.Catalog, h.Location)
}

// GetAppointments lists appointments in insertion order, optionally only
// those on ?date=YYYY-MM-DD and with ?status=.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appointments, err := h.Store.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch appointments")
		return
	}

	if raw := c.Query("date"); raw != "" {
		day, err := parseDay(raw, h.Location)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		appointments = calendar.AppointmentsOnDate(day, appointments)
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		appointments = withStatus(appointments, status)
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch appointment")
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// CreateAppointment opens a blank editor, lays the request body over its
// defaults and submits it.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	ed := h.newEditor()
	ed.OpenCreate()
	if !utils.BindAndValidate(c, &ed.Form) {
		return
	}

	appointment, err := ed.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to create appointment")
		return
	}

	logging.Info("appointment created", "id", appointment.ID, "date", appointment.Date, "by", actor(c))
	noteOffHours(appointment)
	utils.Created(c, "Appointment created successfully", appointment)
}

// UpdateAppointment replaces the editable fields of an appointment. Fields
// missing from the body keep their current values.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	current, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch appointment")
		return
	}

	ed := h.newEditor()
	ed.OpenEdit(current)
	if !utils.BindAndValidate(c, &ed.Form) {
		return
	}

	appointment, err := ed.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to update appointment")
		return
	}

	logging.Info("appointment updated", "id", appointment.ID, "by", actor(c))
	noteOffHours(appointment)
	utils.Success(c, "Appointment updated successfully", appointment)
}

// PatchAppointment merges the given fields into an appointment.
func (h *AppointmentHandler) PatchAppointment(c *gin.Context) {
	var patch models.AppointmentPatch
	if !utils.BindAndValidate(c, &patch) {
		return
	}
	if patch.Empty() {
		utils.BadRequest(c, "No fields to update")
		return
	}

	appointment, err := h.Store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, "Failed to update appointment")
		return
	}

	logging.Info("appointment patched", "id", appointment.ID, "by", actor(c))
	noteOffHours(appointment)
	utils.Success(c, "Appointment updated successfully", appointment)
}

// DeleteAppointment removes an appointment through the editor's delete.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	current, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch appointment")
		return
	}

	ed := h.newEditor()
	ed.OpenEdit(current)
	if err := ed.Delete(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to delete appointment")
		return
	}

	logging.Info("appointment deleted", "id", current.ID, "by", actor(c))
	utils.Success(c, "Appointment deleted successfully", nil)
}

// respondError maps domain errors onto HTTP responses.
func respondError(c *gin.Context, err error, action string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.NotFound(c, "Appointment not found")
	case errors.As(err, &verrs):
		utils.BadRequest(c, "Validation failed: "+utils.FormatValidationError(err))
	case errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidViewMode),
		errors.Is(err, calendar.ErrInvalidDirection),
		errors.Is(err, models.ErrInvalidStatus):
		utils.BadRequest(c, err.Error())
	default:
		logging.Error(strings.ToLower(action), err, "path", c.FullPath())
		utils.InternalServerError(c, action+": "+err.Error())
	}
}

func withStatus(appointments []models.Appointment, status models.AppointmentStatus) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range appointments {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// noteOffHours records appointments that only the month view will show.
func noteOffHours(a models.Appointment) {
	if !calendar.InBusinessHours(a.Time) {
		logging.Debug("appointment outside business hours", "id", a.ID, "time", a.Time)
	}
}

func parseDay(raw string, loc *time.Location) (time.Time, error) {
	date, err := calendar.NormalizeDate(raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.ParseLocalDate(date, loc)
}

func actor(c *gin.Context) string {
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		return id
	}
	return "anonymous"
}
