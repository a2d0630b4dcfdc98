package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ushersync/attendance-backend/internal/platform/ctxutil"
)

const headerActingUser = "X-Acting-User"

// AttachRequestContext resolves the acting principal set by the gateway in
// front of this service and makes it available to handlers. Requests with
// no principal header pass through with an empty RequestData.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := &ctxutil.RequestData{}
		if raw := strings.TrimSpace(c.GetHeader(headerActingUser)); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				rd.UserID = id
			}
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), rd)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
