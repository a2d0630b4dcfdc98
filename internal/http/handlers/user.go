package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/ushersync/attendance-backend/internal/domain"
	"github.com/ushersync/attendance-backend/internal/http/response"
	"github.com/ushersync/attendance-backend/internal/platform/ctxutil"
	"github.com/ushersync/attendance-backend/internal/platform/logger"
	"github.com/ushersync/attendance-backend/internal/services"
)

type UserHandler struct {
	log   *logger.Logger
	users services.UserService
}

func NewUserHandler(log *logger.Logger, users services.UserService) *UserHandler {
	return &UserHandler{
		log:   log.With("handler", "UserHandler"),
		users: users,
	}
}

type registerRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	DOB       *string `json:"dob"` // "2006-01-02"
	Phone     *string `json:"phone"`
}

// POST /api/v1/users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in := services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      types.Role(req.Role),
		Phone:     req.Phone,
	}
	if req.DOB != nil {
		dob, err := time.Parse(types.DateLayout, *req.DOB)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_dob", err)
			return
		}
		in.DOB = &dob
	}
	u, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.log.Error("List users failed", "error", err)
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	u, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// PATCH /api/v1/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.users.UpdateRole(c.Request.Context(), userID, types.Role(req.Role), h.performer(c)); err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": true})
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// PATCH /api/v1/users/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.users.SetActive(c.Request.Context(), userID, req.Active, h.performer(c)); err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": true})
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

// PATCH /api/v1/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil || userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), userID, req.Password); err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": true})
}

func (h *UserHandler) performer(c *gin.Context) uuid.UUID {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}
