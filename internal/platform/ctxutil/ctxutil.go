package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestTraceKey struct{}

// RequestTrace is the pair of correlation ids every request carries:
// TraceID spans the whole call chain, RequestID is unique to this hop.
type RequestTrace struct {
	TraceID   string
	RequestID string
}

func WithRequestTrace(ctx context.Context, rt RequestTrace) context.Context {
	return context.WithValue(ctx, requestTraceKey{}, rt)
}

// RequestTraceFrom returns the ids stored on ctx, zero-valued when the
// trace middleware did not run (background jobs, tests).
func RequestTraceFrom(ctx context.Context) RequestTrace {
	rt, _ := ctx.Value(requestTraceKey{}).(RequestTrace)
	return rt
}

type requestDataKey struct{}

// RequestData carries the acting principal resolved by the (out of scope)
// auth layer in front of this service.
type RequestData struct {
	UserID uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
