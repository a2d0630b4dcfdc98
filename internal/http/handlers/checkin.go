package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/geo"
	"github.com/ushersync/attendance-backend/internal/http/response"
	pkgerrors "github.com/ushersync/attendance-backend/internal/pkg/errors"
	"github.com/ushersync/attendance-backend/internal/platform/ctxutil"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
	"github.com/ushersync/attendance-backend/internal/services"
)

type CheckinHandler struct {
	log     *logger.Logger
	checkin services.CheckinService
}

func NewCheckinHandler(log *logger.Logger, checkin services.CheckinService) *CheckinHandler {
	return &CheckinHandler{
		log:     log.With("handler", "CheckinHandler"),
		checkin: checkin,
	}
}

type checkInRequest struct {
	UserID         *uuid.UUID `json:"user_id"`
	Identifier     string     `json:"identifier"`
	EventID        *uuid.UUID `json:"event_id"`
	AttendanceType string     `json:"attendance_type"`
	Location       *geo.Point `json:"location"`
	DeviceID       string     `json:"device_id"`
}

// POST /api/v1/checkin
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.UserID == nil && strings.TrimSpace(req.Identifier) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_subject", nil)
		return
	}
	if req.Location != nil {
		if err := req.Location.Validate(); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_location", err)
			return
		}
	}

	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		deviceID = strings.TrimSpace(c.GetHeader("X-Device-Id"))
	}

	in := services.CheckInInput{
		SubjectID:      req.UserID,
		Identifier:     req.Identifier,
		EventID:        req.EventID,
		AttendanceType: types.AttendanceType(req.AttendanceType),
		Location:       req.Location,
		DeviceID:       deviceID,
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		in.ActingPrincipal = rd.UserID
	}

	rec, err := h.checkin.CheckIn(c.Request.Context(), in)
	if pkgerrors.Is(err, pkgerrors.ErrDuplicateCheckIn) {
		response.RespondOK(c, gin.H{"record": rec, "code": "already_checked_in"})
		return
	}
	if err != nil {
		h.log.Warn("CheckIn rejected", "error", err)
		response.RespondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": rec})
}

// POST /api/v1/attendance/:id/signout
func (h *CheckinHandler) SignOut(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil || recordID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_attendance_id", err)
		return
	}
	rec, err := h.checkin.SignOut(c.Request.Context(), recordID)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"record": rec})
}

// DELETE /api/v1/attendance/:id
func (h *CheckinHandler) Revoke(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil || recordID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_attendance_id", err)
		return
	}
	var performer uuid.UUID
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		performer = rd.UserID
	}
	if err := h.checkin.Revoke(c.Request.Context(), recordID, performer); err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"revoked": true})
}
