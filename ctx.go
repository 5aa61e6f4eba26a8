package session

import (
	"context"
)

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the UserProfile in the given context
func WithContext(ctx context.Context, user *UserProfile) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// FromContext finds the user profile from the context.
func FromContext(ctx context.Context) (*UserProfile, bool) {
	raw, ok := ctx.Value(userCtxKey).(*UserProfile)
	return raw, ok
}

// RoleFromContext returns the role of the context's user, if any.
func RoleFromContext(ctx context.Context) (Role, bool) {
	user, ok := FromContext(ctx)
	if !ok || user == nil {
		return "", false
	}
	return user.Role, true
}

// Can is a convenience function to check a capability directly from the
// standard context.
func Can(ctx context.Context, capability string) bool {
	role, ok := RoleFromContext(ctx)
	if !ok {
		return false
	}

	switch capability {
	case "manage-events":
		return CanManageEvents(role)
	case "manage-users":
		return CanManageUsers(role)
	default:
		return false
	}
}
