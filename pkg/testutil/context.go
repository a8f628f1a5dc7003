package testutil

import (
	"net/http"

	id "clms/pkg/domain"
	"clms/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// Invalid IDs are silently ignored.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
	}
	return req
}

// WithRoles resolves roles to capabilities and stores them in the request context.
func WithRoles(req *http.Request, roles ...string) *http.Request {
	return req.WithContext(requestcontext.WithCapabilities(req.Context(), id.ResolveCapabilities(roles)))
}

// WithAuth adds both user ID and role-derived capabilities to the request context.
// This is the typical state for an authenticated request.
func WithAuth(req *http.Request, userID string, roles ...string) *http.Request {
	return WithRoles(WithUserID(req, userID), roles...)
}
