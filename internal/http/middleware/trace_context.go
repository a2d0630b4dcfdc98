package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/ushersync/attendance-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext resolves the correlation ids for the request and
// echoes them back in the response headers. The trace id comes from the
// active otel span when one exists, otherwise from the inbound header,
// otherwise it is minted here; the request id is always per-hop.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		rt := ctxutil.RequestTrace{
			RequestID: strings.TrimSpace(c.GetHeader(headerRequestID)),
		}
		if rt.RequestID == "" {
			rt.RequestID = uuid.NewString()
		}

		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
			rt.TraceID = spanCtx.TraceID().String()
		}
		if rt.TraceID == "" {
			rt.TraceID = strings.TrimSpace(c.GetHeader(headerTraceID))
		}
		if rt.TraceID == "" {
			rt.TraceID = uuid.NewString()
		}

		c.Request = c.Request.WithContext(ctxutil.WithRequestTrace(c.Request.Context(), rt))
		c.Set("trace_id", rt.TraceID)
		c.Set("request_id", rt.RequestID)
		c.Writer.Header().Set(headerTraceID, rt.TraceID)
		c.Writer.Header().Set(headerRequestID, rt.RequestID)
		c.Next()
	}
}
