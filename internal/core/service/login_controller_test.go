package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobi/cms-console/internal/core/domain"
)

type stubAuthenticator struct {
	loginFn func(ctx context.Context, creds domain.Credentials) (*domain.UserProfile, error)
}

func (s *stubAuthenticator) Login(ctx context.Context, creds domain.Credentials) (*domain.UserProfile, error) {
	return s.loginFn(ctx, creds)
}

func TestLoginController_Success(t *testing.T) {
	auth := &stubAuthenticator{loginFn: func(_ context.Context, creds domain.Credentials) (*domain.UserProfile, error) {
		return &domain.UserProfile{Username: creds.Username}, nil
	}}
	ctl := NewLoginController(auth, "/products", "en", time.Second, discardLogger)

	target, err := ctl.Submit(context.Background(), domain.Credentials{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "/products", target)
	assert.Equal(t, LoginView{State: LoginIdle}, ctl.View())
}

func TestLoginController_FailureShowsGenericMessage(t *testing.T) {
	for _, cause := range []error{domain.ErrInvalidCredentials, domain.ErrBackendUnavailable, errors.New("dial tcp: refused")} {
		auth := &stubAuthenticator{loginFn: func(context.Context, domain.Credentials) (*domain.UserProfile, error) {
			return nil, cause
		}}
		ctl := NewLoginController(auth, "/products", "en", 0, discardLogger)

		target, err := ctl.Submit(context.Background(), domain.Credentials{Username: "alice"})

		assert.Empty(t, target)
		assert.ErrorIs(t, err, domain.ErrLoginFailed)
		assert.NotErrorIs(t, err, cause, "backend detail must not leave the login view")

		view := ctl.View()
		assert.Equal(t, LoginFailed, view.State)
		assert.False(t, view.Loading)
		assert.Equal(t, "Invalid username or password", view.Error)
		assert.Equal(t, "alice", view.Username)
	}
}

func TestLoginController_Localized(t *testing.T) {
	auth := &stubAuthenticator{loginFn: func(context.Context, domain.Credentials) (*domain.UserProfile, error) {
		return nil, domain.ErrInvalidCredentials
	}}
	ctl := NewLoginController(auth, "/products", "vi", 0, discardLogger)

	_, _ = ctl.Submit(context.Background(), domain.Credentials{})

	assert.Equal(t, "Sai tài khoản hoặc mật khẩu", ctl.View().Error)
	assert.Equal(t, FailureMessage("en"), FailureMessage("fr"))
}

func TestLoginController_RejectsConcurrentSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	auth := &stubAuthenticator{loginFn: func(context.Context, domain.Credentials) (*domain.UserProfile, error) {
		close(entered)
		<-release
		return &domain.UserProfile{}, nil
	}}
	ctl := NewLoginController(auth, "/products", "en", 0, discardLogger)

	done := make(chan error, 1)
	go func() {
		_, err := ctl.Submit(context.Background(), domain.Credentials{Username: "alice"})
		done <- err
	}()
	<-entered

	view := ctl.View()
	assert.True(t, view.Loading)
	assert.Equal(t, LoginSubmitting, view.State)

	_, err := ctl.Submit(context.Background(), domain.Credentials{Username: "alice"})
	assert.ErrorIs(t, err, domain.ErrLoginInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, ctl.View().Loading)
}

func TestLoginController_RetryAfterFailureClearsError(t *testing.T) {
	fail := true
	auth := &stubAuthenticator{loginFn: func(context.Context, domain.Credentials) (*domain.UserProfile, error) {
		if fail {
			return nil, domain.ErrInvalidCredentials
		}
		return &domain.UserProfile{}, nil
	}}
	ctl := NewLoginController(auth, "/products", "en", 0, discardLogger)

	_, err := ctl.Submit(context.Background(), domain.Credentials{})
	require.ErrorIs(t, err, domain.ErrLoginFailed)

	fail = false
	_, err = ctl.Submit(context.Background(), domain.Credentials{})
	require.NoError(t, err)
	assert.Empty(t, ctl.View().Error)
}

func TestLoginController_NotCancelledWithCaller(t *testing.T) {
	auth := &stubAuthenticator{loginFn: func(ctx context.Context, _ domain.Credentials) (*domain.UserProfile, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &domain.UserProfile{}, nil
	}}
	ctl := NewLoginController(auth, "/products", "en", time.Second, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target, err := ctl.Submit(ctx, domain.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "/products", target)
}
