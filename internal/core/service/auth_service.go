package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mobi/cms-console/internal/core/domain"
	"github.com/mobi/cms-console/internal/core/ports"
)

// AuthService logs the operator in against the backend and owns every write
// to the SessionStore.
type AuthService struct {
	gateway  ports.AuthGateway
	sessions *SessionStore
	log      zerolog.Logger
}

func NewAuthService(gateway ports.AuthGateway, sessions *SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		gateway:  gateway,
		sessions: sessions,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

// Login sends creds to the backend unchanged. The session is written before
// Login returns; on any error it is left as it was.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.UserProfile, error) {
	res, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if res.AccessToken == "" || res.User == nil {
		return nil, fmt.Errorf("login: %w", domain.ErrMalformedLoginResponse)
	}

	if err := s.sessions.SetSession(ctx, res.AccessToken, *res.User); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("username", res.User.Username).Msg("operator signed in")
	return res.User.Clone(), nil
}

// Logout clears the local session. There is no backend call.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.sessions.IsAuthenticated(ctx)
}

// HasRole is false whenever there is no authenticated session.
func (s *AuthService) HasRole(ctx context.Context, role domain.Role) bool {
	sess := s.sessions.Current(ctx)
	if !sess.Authenticated() {
		return false
	}
	return sess.User.HasRole(role)
}

// CurrentUser returns the profile of the authenticated operator, or nil.
func (s *AuthService) CurrentUser(ctx context.Context) *domain.UserProfile {
	sess := s.sessions.Current(ctx)
	if !sess.Authenticated() {
		return nil
	}
	return sess.User
}
