package httpx

import (
	"context"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
)

// userKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type userKey struct{}

// SetUserInContext returns a child context that carries the given user record.
// If rec is nil, the original ctx is returned unchanged.
func SetUserInContext(ctx context.Context, rec *domainauth.UserRecord) context.Context {
	if rec == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, rec)
}

// GetUserFromContext returns the user record from context and a boolean indicating presence.
func GetUserFromContext(ctx context.Context) (*domainauth.UserRecord, bool) {
	if rec, ok := ctx.Value(userKey{}).(*domainauth.UserRecord); ok && rec != nil {
		return rec, true
	}
	return nil, false
}

// IsAuthenticated reports whether the current request context carries a user record.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := GetUserFromContext(ctx)
	return ok
}
