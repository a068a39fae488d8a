package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mobi/cms-console/internal/core/domain"
	"github.com/mobi/cms-console/internal/core/service"
)

type stubLoginForm struct {
	submitFn func(ctx context.Context, creds domain.Credentials) (string, error)
	view     service.LoginView
}

func (s *stubLoginForm) Submit(ctx context.Context, creds domain.Credentials) (string, error) {
	return s.submitFn(ctx, creds)
}

func (s *stubLoginForm) View() service.LoginView { return s.view }

type stubAuthService struct {
	user      *domain.UserProfile
	logoutErr error
	loggedOut bool
}

func (s *stubAuthService) IsAuthenticated(context.Context) bool { return s.user != nil }

func (s *stubAuthService) HasRole(_ context.Context, role domain.Role) bool {
	return s.user.HasRole(role)
}

func (s *stubAuthService) CurrentUser(context.Context) *domain.UserProfile { return s.user }

func (s *stubAuthService) Login(context.Context, domain.Credentials) (*domain.UserProfile, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthService) Logout(context.Context) error {
	s.loggedOut = true
	s.user = nil
	return s.logoutErr
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	form := &stubLoginForm{
		submitFn: func(ctx context.Context, creds domain.Credentials) (string, error) {
			if creds.Username != "alice" || creds.Password != "secret" {
				t.Fatalf("unexpected credentials: %+v", creds)
			}
			return "/products", nil
		},
	}
	handler := NewAuthHandler(form, &stubAuthService{}, "/login")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/products" {
		t.Fatalf("expected redirect to /products, got %q", loc)
	}
}

func TestAuthHandler_Login_FormEncoded(t *testing.T) {
	e := echo.New()
	var got domain.Credentials
	form := &stubLoginForm{
		submitFn: func(ctx context.Context, creds domain.Credentials) (string, error) {
			got = creds
			return "/products", nil
		},
	}
	handler := NewAuthHandler(form, &stubAuthService{}, "/login")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=bob&password=pw"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Username != "bob" || got.Password != "pw" {
		t.Fatalf("unexpected credentials: %+v", got)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	e := echo.New()
	form := &stubLoginForm{
		submitFn: func(ctx context.Context, creds domain.Credentials) (string, error) {
			return "", domain.ErrLoginFailed
		},
		view: service.LoginView{State: service.LoginFailed, Error: "Invalid username or password", Username: "alice"},
	}
	handler := NewAuthHandler(form, &stubAuthService{}, "/login")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"bad"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var view service.LoginView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if view.Error != "Invalid username or password" || view.State != service.LoginFailed {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestAuthHandler_Login_InProgress(t *testing.T) {
	e := echo.New()
	form := &stubLoginForm{
		submitFn: func(ctx context.Context, creds domain.Credentials) (string, error) {
			return "", domain.ErrLoginInProgress
		},
		view: service.LoginView{State: service.LoginSubmitting, Loading: true},
	}
	handler := NewAuthHandler(form, &stubAuthService{}, "/login")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Login(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	form := &stubLoginForm{
		submitFn: func(ctx context.Context, creds domain.Credentials) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	handler := NewAuthHandler(form, &stubAuthService{}, "/login")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := echo.New()
	auth := &stubAuthService{user: &domain.UserProfile{Username: "alice"}}
	handler := NewAuthHandler(&stubLoginForm{}, auth, "/login")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !auth.loggedOut {
		t.Fatalf("logout not called")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestAuthHandler_Logout_StorageError(t *testing.T) {
	e := echo.New()
	auth := &stubAuthService{logoutErr: domain.ErrStorage}
	handler := NewAuthHandler(&stubLoginForm{}, auth, "/login")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	e := echo.New()
	auth := &stubAuthService{user: &domain.UserProfile{ID: 1, Username: "alice", Roles: []domain.Role{domain.RoleAdmin}}}
	handler := NewAuthHandler(&stubLoginForm{}, auth, "/login")

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Authenticated || resp.User == nil || resp.User.Username != "alice" {
		t.Fatalf("unexpected session payload: %+v", resp)
	}
}
