package ports

import (
	"context"

	"github.com/mobi/cms-console/internal/core/domain"
)

// SessionReader is the read-only view of the session used by guards and handlers.
type SessionReader interface {
	IsAuthenticated(ctx context.Context) bool
	HasRole(ctx context.Context, role domain.Role) bool
	CurrentUser(ctx context.Context) *domain.UserProfile
}

// AuthService is the sole writer of the console session.
type AuthService interface {
	SessionReader
	Login(ctx context.Context, creds domain.Credentials) (*domain.UserProfile, error)
	Logout(ctx context.Context) error
}
