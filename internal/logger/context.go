package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var requestContextKey = contextKey{}

// RequestContext holds request-scoped logging context
type RequestContext struct {
	RequestID string    // per-request id assigned by the router
	ClientIP  string    // client IP address (without port)
	UserID    int64     // authenticated user id, 0 when anonymous
	Endpoint  string    // matched route pattern
	StartTime time.Time // for duration calculation
}

// WithContext returns a new context carrying the given RequestContext
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// FromContext retrieves the RequestContext, or nil if not present
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}
	rc, _ := ctx.Value(requestContextKey).(*RequestContext)
	return rc
}

// NewRequestContext creates a RequestContext for the given client IP
func NewRequestContext(clientIP string) *RequestContext {
	return &RequestContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}
