// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"time"

	"estoque/internal/core/id"
)

// TraceContext contains request tracing information.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
	StartedAt time.Time
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext creates a new TraceContext with generated IDs.
// Empty or malformed ids are generated; valid incoming ones are kept.
func NewTraceContext(traceID, requestID string) *TraceContext {
	if !id.Valid(traceID) {
		traceID = id.New()
	}
	if !id.Valid(requestID) {
		requestID = id.New()
	}
	return &TraceContext{
		TraceID:   traceID,
		SpanID:    id.Span(),
		RequestID: requestID,
		StartedAt: time.Now(),
	}
}
