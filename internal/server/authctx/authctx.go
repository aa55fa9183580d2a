package authctx

import (
	"context"

	"bizpos-backend/internal/domain"
)

type contextKey struct{}

// CurrentUser is the caller resolved from an access token.
type CurrentUser struct {
	ID         string
	Email      string
	Role       domain.UserRole
	BusinessID string
}

// CanAccessBusiness reports whether the user may read or change the settings
// of businessID. Admins are not bound to a business.
func (u CurrentUser) CanAccessBusiness(businessID string) bool {
	if u.Role == domain.RoleAdmin {
		return true
	}
	return businessID != "" && u.BusinessID == businessID
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(contextKey{}).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
