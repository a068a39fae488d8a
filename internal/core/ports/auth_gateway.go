package ports

import (
	"context"

	"github.com/mobi/cms-console/internal/core/domain"
)

// LoginResult is the body of a successful POST {apiBase}/auth/login.
type LoginResult struct {
	AccessToken string              `json:"accessToken"`
	User        *domain.UserProfile `json:"user"`
}

// AuthGateway performs the network half of a login.
type AuthGateway interface {
	Login(ctx context.Context, creds domain.Credentials) (LoginResult, error)
}
