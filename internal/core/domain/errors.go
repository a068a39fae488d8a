package domain

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrMalformedLoginResponse = errors.New("login response missing access token")
	ErrBackendUnavailable     = errors.New("backend unavailable")
	ErrUnauthorized           = errors.New("backend rejected credentials")
	ErrForbidden              = errors.New("access forbidden")
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrStorage                = errors.New("session storage failure")

	// ErrLoginInProgress is returned when a login is submitted while another is pending.
	ErrLoginInProgress = errors.New("login already in progress")
	// ErrLoginFailed is the only login error surfaced past the login view.
	ErrLoginFailed = errors.New("login failed")
)
