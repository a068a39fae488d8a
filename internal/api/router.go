package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mobi/cms-console/internal/api/handler"
	"github.com/mobi/cms-console/internal/api/middleware"
	"github.com/mobi/cms-console/internal/core/domain"
	"github.com/mobi/cms-console/internal/core/ports"
	"github.com/mobi/cms-console/internal/core/service"
)

// Routes holds the navigation targets and role sets of the console.
type Routes struct {
	LoginPath   string
	HomePath    string
	DeniedPath  string
	AdminRoles  []domain.Role
	EditorRoles []domain.Role
}

// Deps is everything the router needs from main.
type Deps struct {
	Auth    ports.AuthService
	Login   handler.LoginForm
	Catalog ports.CatalogGateway
	Storage ports.Pinger
	Breaker handler.BreakerState
	Routes  Routes

	LoginRateLimit float64
	LoginRateBurst int

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	r := d.Routes

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "cms_console",
		Registerer: d.Registerer,
		Skipper:    operational,
	}))
	e.Use(requestLogger(d.Log))

	// --- Health probes and metrics (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Storage, d.Breaker)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	// --- Session routes ---
	authHandler := handler.NewAuthHandler(d.Login, d.Auth, r.LoginPath)
	e.GET(r.LoginPath, authHandler.LoginPage)
	e.POST(r.LoginPath, authHandler.Login, middleware.LoginThrottle(d.LoginRateLimit, d.LoginRateBurst))
	e.POST("/logout", authHandler.Logout)
	e.GET("/session", authHandler.Session)

	// --- Guards ---
	guardLog := d.Log.With().Str("component", "guard").Logger()
	authenticated := middleware.Guard("authenticated", service.NewAuthenticatedGuard(d.Auth, r.LoginPath), guardLog)
	editor := middleware.Guard("editor", service.NewAnyRoleGuard(d.Auth, r.DeniedPath, r.EditorRoles...), guardLog)
	admin := middleware.Guard("admin", service.NewAnyRoleGuard(d.Auth, r.DeniedPath, r.AdminRoles...), guardLog)

	// Guards are attached per route so unknown paths reach the login fallback.
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, r.HomePath)
	}, authenticated)

	products := handler.NewProductHandler(d.Catalog)
	e.GET("/products", products.List, authenticated)
	e.GET("/products/new", products.New, authenticated)
	e.GET("/products/:id", products.Edit, authenticated)
	e.POST("/products", products.Create, authenticated, editor)
	e.PUT("/products/:id", products.Update, authenticated, editor)
	e.DELETE("/products/:id", products.Delete, authenticated, editor)

	categories := handler.NewCategoryHandler(d.Catalog)
	e.GET("/categories", categories.List, authenticated)

	orders := handler.NewOrderHandler(d.Catalog)
	e.GET("/orders", orders.List, authenticated)
	e.GET("/orders/:id", orders.Get, authenticated)
	e.GET("/carts", orders.Carts, authenticated)

	users := handler.NewUserHandler(d.Catalog, d.Auth)
	e.GET("/users", users.List, authenticated, admin)
	e.GET("/users/:id", users.Get, authenticated, admin)
	e.DELETE("/users/:id", users.Delete, authenticated, admin)

	// --- Fallback ---
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, r.LoginPath)
	})

	return e
}

func operational(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health")
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	httpLog := log.With().Str("component", "http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      operational,
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := httpLog.Info()
			if v.Error != nil {
				ev = httpLog.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
