package service

import (
	"context"

	"github.com/mobi/cms-console/internal/core/domain"
	"github.com/mobi/cms-console/internal/core/ports"
)

// AuthenticatedGuard admits only an authenticated operator and sends everyone
// else to the login page.
type AuthenticatedGuard struct {
	session   ports.SessionReader
	loginPath string
}

func NewAuthenticatedGuard(session ports.SessionReader, loginPath string) *AuthenticatedGuard {
	return &AuthenticatedGuard{session: session, loginPath: loginPath}
}

func (g *AuthenticatedGuard) CanEnter(ctx context.Context, _ ports.Navigation) ports.Decision {
	if g.session.IsAuthenticated(ctx) {
		return ports.Allow()
	}
	return ports.Deny(g.loginPath)
}

// AnyRoleGuard admits the operator when they hold at least one of roles.
// An empty role set admits nobody. deniedPath may be empty, in which case
// the navigation is blocked without a redirect.
type AnyRoleGuard struct {
	session    ports.SessionReader
	roles      []domain.Role
	deniedPath string
}

func NewAnyRoleGuard(session ports.SessionReader, deniedPath string, roles ...domain.Role) *AnyRoleGuard {
	return &AnyRoleGuard{session: session, roles: roles, deniedPath: deniedPath}
}

func (g *AnyRoleGuard) CanEnter(ctx context.Context, _ ports.Navigation) ports.Decision {
	for _, r := range g.roles {
		if g.session.HasRole(ctx, r) {
			return ports.Allow()
		}
	}
	return ports.Deny(g.deniedPath)
}
