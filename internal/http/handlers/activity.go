package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ushersync/attendance-backend/internal/http/response"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
	"github.com/ushersync/attendance-backend/internal/services"
)

type ActivityHandler struct {
	log      *logger.Logger
	activity services.ActivityService
}

func NewActivityHandler(log *logger.Logger, activity services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		log:      log.With("handler", "ActivityHandler"),
		activity: activity,
	}
}

// GET /api/v1/logs?limit=100
func (h *ActivityHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = v
	}
	logs, err := h.activity.List(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("List activity logs failed", "error", err)
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"logs": logs})
}
