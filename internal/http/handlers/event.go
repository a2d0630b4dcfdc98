package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/http/response"
	"github.com/ushersync/attendance-backend/internal/platform/ctxutil"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
	"github.com/ushersync/attendance-backend/internal/services"
)

type EventHandler struct {
	log    *logger.Logger
	events services.EventService
}

func NewEventHandler(log *logger.Logger, events services.EventService) *EventHandler {
	return &EventHandler{
		log:    log.With("handler", "EventHandler"),
		events: events,
	}
}

type createEventRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
	AttendanceType     string `json:"attendance_type"`
	Venue              string `json:"venue"`
}

// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in := services.CreateEventInput{
		Title:              req.Title,
		Description:        req.Description,
		Date:               req.Date,
		Time:               req.Time,
		GracePeriodMinutes: req.GracePeriodMinutes,
		AttendanceType:     types.AttendanceType(req.AttendanceType),
		Venue:              req.Venue,
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		in.CreatedBy = rd.UserID
	}
	e, err := h.events.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": e})
}

// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var (
		events []*types.Event
		err    error
	)
	switch c.Query("scope") {
	case "upcoming":
		events, err = h.events.ListUpcoming(c.Request.Context())
	case "past":
		events, err = h.events.ListPast(c.Request.Context())
	default:
		events, err = h.events.List(c.Request.Context())
	}
	if err != nil {
		h.log.Error("List events failed", "error", err)
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil || eventID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	e, err := h.events.Get(c.Request.Context(), eventID)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": e})
}

type updateEventRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Date               *string `json:"date"`
	Time               *string `json:"time"`
	GracePeriodMinutes *int    `json:"grace_period_minutes"`
	AttendanceType     *string `json:"attendance_type"`
	Venue              *string `json:"venue"`
}

// PATCH /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil || eventID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in := services.UpdateEventInput{
		Title:              req.Title,
		Description:        req.Description,
		Date:               req.Date,
		Time:               req.Time,
		GracePeriodMinutes: req.GracePeriodMinutes,
		Venue:              req.Venue,
	}
	if req.AttendanceType != nil {
		at := types.AttendanceType(*req.AttendanceType)
		in.AttendanceType = &at
	}
	e, err := h.events.Update(c.Request.Context(), eventID, in)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": e})
}

// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil || eventID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	if err := h.events.Delete(c.Request.Context(), eventID); err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
