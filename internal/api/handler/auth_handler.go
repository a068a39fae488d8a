package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mobi/cms-console/internal/api/metrics"
	"github.com/mobi/cms-console/internal/core/domain"
	"github.com/mobi/cms-console/internal/core/ports"
	"github.com/mobi/cms-console/internal/core/service"
)

// LoginForm is the login page state machine.
type LoginForm interface {
	Submit(ctx context.Context, creds domain.Credentials) (string, error)
	View() service.LoginView
}

type AuthHandler struct {
	form        LoginForm
	authService ports.AuthService
	loginPath   string
}

func NewAuthHandler(form LoginForm, authService ports.AuthService, loginPath string) *AuthHandler {
	return &AuthHandler{form: form, authService: authService, loginPath: loginPath}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type sessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	User          *domain.UserProfile `json:"user,omitempty"`
}

// LoginPage handles GET /login.
//
// @Summary      Login page state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  service.LoginView
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, h.form.View())
}

// Login handles POST /login. Credentials are forwarded as typed; on success
// the operator is redirected to the home page.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      303   "redirect to the home page"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  service.LoginView
// @Failure      409   {object}  service.LoginView
// @Failure      429   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	target, err := h.form.Submit(c.Request().Context(), domain.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		status := http.StatusUnauthorized
		result := "failure"
		if errors.Is(err, domain.ErrLoginInProgress) {
			status = http.StatusConflict
			result = "in_progress"
		}
		metrics.LoginAttemptsTotal.WithLabelValues(result).Inc()
		return c.JSON(status, h.form.View())
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, target)
}

// Logout handles POST /logout. It only clears the local session.
//
// @Summary      Sign out
// @Tags         auth
// @Success      303  "redirect to the login page"
// @Failure      500  {object}  errorResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, h.loginPath)
}

// Session handles GET /session.
func (h *AuthHandler) Session(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.authService.IsAuthenticated(ctx) {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          h.authService.CurrentUser(ctx),
	})
}
