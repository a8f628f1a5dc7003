// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
//
//	actor := requestcontext.UserID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithCapabilities(ctx, domain.ResolveCapabilities([]string{"admin"}))
package requestcontext

import (
	"context"
	"time"

	id "clms/pkg/domain"
)

type (
	userIDKey       struct{}
	capabilitiesKey struct{}
	requestIDKey    struct{}
	requestTimeKey  struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyUserID       = userIDKey{}
	ContextKeyCapabilities = capabilitiesKey{}
	ContextKeyRequestID    = requestIDKey{}
	ContextKeyRequestTime  = requestTimeKey{}
)

// UserID retrieves the authenticated user ID from the context.
// Returns the zero value if not set.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(ContextKeyUserID).(id.UserID); ok {
		return userID
	}
	return ""
}

// WithUserID injects a user ID into the context.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// Capabilities returns the permission set resolved for this session, or an
// empty set.
func Capabilities(ctx context.Context) id.Capabilities {
	if caps, ok := ctx.Value(ContextKeyCapabilities).(id.Capabilities); ok {
		return caps
	}
	return id.Capabilities{}
}

// WithCapabilities injects a resolved permission set.
func WithCapabilities(ctx context.Context, caps id.Capabilities) context.Context {
	return context.WithValue(ctx, ContextKeyCapabilities, caps)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that don't run the full HTTP middleware chain
//   - Workers that need consistent time within a batch operation
//   - CLI commands
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
