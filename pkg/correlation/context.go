// Package correlation propagates a correlation identifier through a logical
// call chain so nested telemetry records (traces, logs, metrics) can tag
// themselves without every caller threading an explicit parameter.
//
// The identifier rides on context.Context. Because contexts are immutable,
// nesting and restoration come for free: an inner scope shadows an outer one,
// and the outer value is visible again the moment the inner context goes out
// of scope, on every exit path including panics. Child goroutines that
// receive the context inherit the identifier; unrelated call chains never
// share it.
package correlation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// correlationIDKey is the context key for storing correlation IDs.
	correlationIDKey contextKey = "correlation_id"
	// Header is the HTTP header name for correlation IDs.
	Header = "X-Correlation-ID"
)

// ErrPropagation indicates that an established correlation scope could not be
// restored. The context-based implementation cannot lose a prior value, so
// this error is reserved for hosts that bridge the identifier into mutable
// per-worker storage; it exists so such failures have a distinct, checked
// identity instead of being silently dropped.
var ErrPropagation = errors.New("correlation context propagation failed")

// FromContext retrieves the correlation ID from the context.
// Returns an empty string if no correlation ID has been established.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// With returns a context carrying id as the current correlation ID,
// shadowing any identifier already established.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// NewID generates a fresh correlation identifier (UUID v4).
func NewID() string {
	return uuid.NewString()
}

// Run establishes id as the current correlation ID for the dynamic extent of
// fn and returns fn's error unchanged. The previous identifier (or none) is
// visible again after Run returns, whether fn returns normally, returns an
// error, or panics.
func Run(ctx context.Context, id string, fn func(context.Context) error) error {
	return fn(With(ctx, id))
}

// Ensure returns a context that carries a correlation ID, reusing the current
// one when present and establishing a freshly generated one otherwise. The
// second return value is the effective identifier.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := NewID()
	return With(ctx, id), id
}
