package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mobi/cms-console/internal/core/domain"
)

// LoginState is the state of the login form.
type LoginState string

const (
	LoginIdle       LoginState = "idle"
	LoginSubmitting LoginState = "submitting"
	LoginFailed     LoginState = "failed"
)

// failureMessages holds the one message shown for any failed login, by locale.
var failureMessages = map[string]string{
	"en": "Invalid username or password",
	"vi": "Sai tài khoản hoặc mật khẩu",
}

// FailureMessage returns the login failure message for locale, falling back to English.
func FailureMessage(locale string) string {
	if msg, ok := failureMessages[locale]; ok {
		return msg
	}
	return failureMessages["en"]
}

// LoginView is what the login page renders.
type LoginView struct {
	State    LoginState `json:"state"`
	Loading  bool       `json:"loading"`
	Error    string     `json:"error,omitempty"`
	Username string     `json:"username,omitempty"`
}

// Authenticator is the part of AuthService the login form drives.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.UserProfile, error)
}

// LoginController pairs the login form with Authenticator.Login and decides
// where to navigate afterwards.
type LoginController struct {
	auth     Authenticator
	homePath string
	message  string
	timeout  time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	state    LoginState
	errMsg   string
	username string
}

// NewLoginController builds the controller. timeout bounds one login attempt;
// zero means no bound beyond the backend client's own.
func NewLoginController(auth Authenticator, homePath, locale string, timeout time.Duration, log zerolog.Logger) *LoginController {
	return &LoginController{
		auth:     auth,
		homePath: homePath,
		message:  FailureMessage(locale),
		timeout:  timeout,
		log:      log.With().Str("component", "login").Logger(),
		state:    LoginIdle,
	}
}

// Submit runs one login attempt and returns the path to navigate to.
// It returns ErrLoginInProgress while another attempt is pending and
// ErrLoginFailed for every backend or network failure; the cause is only logged.
// The attempt is not cancelled when ctx is.
func (c *LoginController) Submit(ctx context.Context, creds domain.Credentials) (string, error) {
	c.mu.Lock()
	if c.state == LoginSubmitting {
		c.mu.Unlock()
		return "", domain.ErrLoginInProgress
	}
	c.state = LoginSubmitting
	c.errMsg = ""
	c.username = creds.Username
	c.mu.Unlock()

	loginCtx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		loginCtx, cancel = context.WithTimeout(loginCtx, c.timeout)
		defer cancel()
	}

	_, err := c.auth.Login(loginCtx, creds)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = LoginFailed
		c.errMsg = c.message
		c.log.Warn().Err(err).Str("username", creds.Username).Msg("login failed")
		return "", domain.ErrLoginFailed
	}

	c.state = LoginIdle
	c.username = ""
	return c.homePath, nil
}

// View returns a snapshot of the form state.
func (c *LoginController) View() LoginView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return LoginView{
		State:    c.state,
		Loading:  c.state == LoginSubmitting,
		Error:    c.errMsg,
		Username: c.username,
	}
}
