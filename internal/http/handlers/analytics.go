package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/http/response"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
	"github.com/ushersync/attendance-backend/internal/services"
)

type AnalyticsHandler struct {
	log   *logger.Logger
	stats services.StatsService
}

func NewAnalyticsHandler(log *logger.Logger, stats services.StatsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:   log.With("handler", "AnalyticsHandler"),
		stats: stats,
	}
}

// GET /api/v1/analytics/day-stats?date=2006-01-02
func (h *AnalyticsHandler) DayStats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(types.DateLayout)
	}
	out, err := h.stats.DayStats(c.Request.Context(), date)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/v1/analytics/user-attendance/:id
func (h *AnalyticsHandler) UserAttendance(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	out, err := h.stats.UserHistory(c.Request.Context(), userID)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/v1/analytics/attendance-rates
func (h *AnalyticsHandler) AttendanceRates(c *gin.Context) {
	out, err := h.stats.RatesByRole(c.Request.Context())
	if err != nil {
		h.log.Error("AttendanceRates failed", "error", err)
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/v1/analytics/event-report/:id
func (h *AnalyticsHandler) EventReport(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil || eventID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	out, err := h.stats.EventReport(c.Request.Context(), eventID)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/v1/analytics/upcoming-birthdays?days=7
func (h *AnalyticsHandler) UpcomingBirthdays(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 31 {
			response.RespondError(c, http.StatusBadRequest, "invalid_days", err)
			return
		}
		days = v
	}
	out, err := h.stats.UpcomingBirthdays(c.Request.Context(), time.Now(), days)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"birthdays": out})
}
