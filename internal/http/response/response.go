package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ushersync/attendance-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondEngineError maps an engine error to its HTTP shape. A 2xx mapping
// (the idempotent duplicate check-in) is the caller's to handle; this
// emits the error envelope for everything else.
func RespondEngineError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		RespondOK(c, gin.H{})
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}
