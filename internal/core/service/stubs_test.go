package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mobi/cms-console/internal/core/domain"
	"github.com/mobi/cms-console/internal/core/ports"
)

var discardLogger = zerolog.Nop()

var errBoom = errors.New("boom")

// stubKV is an in-memory KeyValueStore with per-key failure injection.
type stubKV struct {
	mu        sync.Mutex
	data      map[string]string
	failSet   map[string]bool
	failGet   bool
	failRemov bool
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string]string), failSet: make(map[string]bool)}
}

func (s *stubKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return "", false, errBoom
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet[key] {
		return errBoom
	}
	s.data[key] = value
	return nil
}

func (s *stubKV) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRemov {
		return errBoom
	}
	delete(s.data, key)
	return nil
}

func (s *stubKV) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

type stubGateway struct {
	loginFn func(ctx context.Context, creds domain.Credentials) (ports.LoginResult, error)
	calls   int
}

func (g *stubGateway) Login(ctx context.Context, creds domain.Credentials) (ports.LoginResult, error) {
	g.calls++
	return g.loginFn(ctx, creds)
}

func okGateway(token string, user domain.UserProfile) *stubGateway {
	return &stubGateway{loginFn: func(context.Context, domain.Credentials) (ports.LoginResult, error) {
		u := user
		return ports.LoginResult{AccessToken: token, User: &u}, nil
	}}
}

func failingGateway(err error) *stubGateway {
	return &stubGateway{loginFn: func(context.Context, domain.Credentials) (ports.LoginResult, error) {
		return ports.LoginResult{}, err
	}}
}

func alice(roles ...domain.Role) domain.UserProfile {
	return domain.UserProfile{ID: 7, Username: "alice", Email: "alice@example.com", Roles: roles}
}
