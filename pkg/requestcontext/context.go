// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Values are set by middleware and consumed by services. Keeping this package
// free of net/http lets services import only what they need. Tests inject a
// fixed time with WithTime so day-bucket and cache-expiry logic stays
// deterministic.
package requestcontext

import (
	"context"
	"time"
)

type (
	identityIDKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyIdentityID  = identityIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// WithIdentityID attaches the authenticated identity to the context.
func WithIdentityID(ctx context.Context, identityID string) context.Context {
	return context.WithValue(ctx, ContextKeyIdentityID, identityID)
}

// IdentityID returns the authenticated identity, or "" when unauthenticated.
func IdentityID(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyIdentityID).(string)
	return v
}

// WithRequestID attaches a request ID for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestID returns the request ID, or "" when absent.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyRequestID).(string)
	return v
}

// WithTime pins the request time. Used by middleware (request arrival) and by
// tests that need deterministic clocks.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// Now returns the pinned request time, falling back to time.Now.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}
