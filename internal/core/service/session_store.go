package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mobi/cms-console/internal/core/domain"
	"github.com/mobi/cms-console/internal/core/ports"
)

const (
	// TokenKey holds the bearer token in durable storage.
	TokenKey = "access_token"
	// ProfileKey holds the JSON-encoded profile persisted alongside the token.
	ProfileKey = "session_user"
)

// SessionStore is the single source of truth for who is signed in to the console.
// The token and profile live in durable storage; the pair last committed by
// this store is also kept in memory.
type SessionStore struct {
	store ports.KeyValueStore
	log   zerolog.Logger

	// writeMu serializes writers across storage round-trips. mu only guards
	// the in-memory pair and subscribers, so readers never wait on storage.
	writeMu sync.Mutex

	mu          sync.RWMutex
	token       string
	user        *domain.UserProfile
	subscribers map[int]func(domain.Session)
	nextSubID   int
}

func NewSessionStore(store ports.KeyValueStore, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		store:       store,
		log:         log.With().Str("component", "session").Logger(),
		subscribers: make(map[int]func(domain.Session)),
	}
}

// SetSession persists token and user, then publishes the new session.
// On failure the previous session, stored and in memory, is left as it was.
func (s *SessionStore) SetSession(ctx context.Context, token string, user domain.UserProfile) error {
	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session profile: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prevTok, hadTok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("%w: read token: %v", domain.ErrStorage, err)
	}
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("%w: write token: %v", domain.ErrStorage, err)
	}
	if err := s.store.Set(ctx, ProfileKey, string(profile)); err != nil {
		s.restoreToken(ctx, prevTok, hadTok)
		return fmt.Errorf("%w: write profile: %v", domain.ErrStorage, err)
	}

	sess := s.swap(token, user.Clone())
	s.publish(sess)
	return nil
}

// restoreToken puts the token that was stored before a failed SetSession back.
func (s *SessionStore) restoreToken(ctx context.Context, prev string, had bool) {
	var err error
	if had {
		err = s.store.Set(ctx, TokenKey, prev)
	} else {
		err = s.store.Remove(ctx, TokenKey)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("rollback of half-written session failed")
	}
}

// swap replaces the in-memory pair and returns the session to publish.
func (s *SessionStore) swap(token string, user *domain.UserProfile) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	if user == nil {
		return domain.Session{}
	}
	return domain.Session{Token: token, User: user.Clone()}
}

// ClearSession removes the session from memory and storage. Clearing an empty
// session is a no-op.
func (s *SessionStore) ClearSession(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.clear(ctx)
}

// clear expects writeMu to be held. Memory is cleared first so readers stop
// seeing the session before storage is touched.
func (s *SessionStore) clear(ctx context.Context) error {
	sess := s.swap("", nil)
	errTok := s.store.Remove(ctx, TokenKey)
	errProf := s.store.Remove(ctx, ProfileKey)
	s.publish(sess)

	if err := errors.Join(errTok, errProf); err != nil {
		return fmt.Errorf("%w: clear session: %v", domain.ErrStorage, err)
	}
	return nil
}

// CurrentUser returns a copy of the in-memory profile, or nil.
func (s *SessionStore) CurrentUser() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// Token reads the bearer token from durable storage.
func (s *SessionStore) Token(ctx context.Context) (string, bool) {
	tok, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read token from storage")
		return "", false
	}
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// Current returns the session as seen by guards: the in-memory pair, provided
// storage still holds the same token. Token and user always come from one
// committed SetSession; while a write is in flight, or after the token was
// changed outside this store, the session reads as empty.
func (s *SessionStore) Current(ctx context.Context) domain.Session {
	s.mu.RLock()
	tok, user := s.token, s.user.Clone()
	s.mu.RUnlock()

	stored, ok := s.Token(ctx)
	if !ok || stored != tok || user == nil {
		return domain.Session{}
	}
	return domain.Session{Token: tok, User: user}
}

// IsAuthenticated reports whether a non-empty token is stored and a profile is loaded.
func (s *SessionStore) IsAuthenticated(ctx context.Context) bool {
	return s.Current(ctx).Authenticated()
}

// Restore rehydrates the in-memory pair after a restart. A token whose
// profile is missing or unreadable is discarded.
func (s *SessionStore) Restore(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tok, hasTok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("%w: read token: %v", domain.ErrStorage, err)
	}
	raw, hasProfile, err := s.store.Get(ctx, ProfileKey)
	if err != nil {
		return fmt.Errorf("%w: read profile: %v", domain.ErrStorage, err)
	}

	if !hasTok || tok == "" {
		if hasProfile {
			s.log.Info().Msg("dropping profile without token")
			return s.clear(ctx)
		}
		return nil
	}

	var user domain.UserProfile
	if !hasProfile || json.Unmarshal([]byte(raw), &user) != nil {
		s.log.Warn().Msg("stored token has no usable profile, clearing session")
		return s.clear(ctx)
	}

	sess := s.swap(tok, user.Clone())
	s.log.Info().Str("username", user.Username).Msg("session restored")
	s.publish(sess)
	return nil
}

// Subscribe registers fn to be called after every session change. The
// returned func removes the subscription.
func (s *SessionStore) Subscribe(fn func(domain.Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) publish(sess domain.Session) {
	s.mu.RLock()
	fns := make([]func(domain.Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(sess)
	}
}
