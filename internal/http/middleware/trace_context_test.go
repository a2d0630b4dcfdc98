package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ushersync/attendance-backend/internal/platform/ctxutil"
)

func traceRouter() (*gin.Engine, *ctxutil.RequestTrace) {
	gin.SetMode(gin.TestMode)
	seen := &ctxutil.RequestTrace{}
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/ping", func(c *gin.Context) {
		*seen = ctxutil.RequestTraceFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r, seen
}

func TestAttachTraceContextMintsIDs(t *testing.T) {
	r, seen := traceRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seen.TraceID == "" || seen.RequestID == "" {
		t.Fatalf("ids must be minted when absent, got %+v", seen)
	}
	if w.Header().Get("X-Trace-Id") != seen.TraceID {
		t.Fatal("trace id must be echoed in the response header")
	}
	if w.Header().Get("X-Request-Id") != seen.RequestID {
		t.Fatal("request id must be echoed in the response header")
	}
}

func TestAttachTraceContextPropagatesInboundIDs(t *testing.T) {
	r, seen := traceRouter()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-Id", "trace-abc")
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen.TraceID != "trace-abc" {
		t.Fatalf("inbound trace id must be kept, got %q", seen.TraceID)
	}
	if seen.RequestID != "req-123" {
		t.Fatalf("inbound request id must be kept, got %q", seen.RequestID)
	}
}
