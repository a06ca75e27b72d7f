package authctx

import (
	"context"

	"rwa-backend/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the authenticated caller. FlatNumber is loaded from storage
// so resident scoping follows reassignments without reissuing tokens.
type CurrentUser struct {
	ID         int64
	Phone      string
	Role       domain.UserRole
	FlatNumber string
}

func (u CurrentUser) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// IsStaff reports whether the caller works for the association rather than
// living in a flat.
func (u CurrentUser) IsStaff() bool {
	return u.Role == domain.RoleAdmin || u.Role == domain.RoleWatchman
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
