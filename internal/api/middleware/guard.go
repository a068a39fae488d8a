package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mobi/cms-console/internal/api/metrics"
	"github.com/mobi/cms-console/internal/core/ports"
)

// Guard runs g before every request of the group it is attached to.
// A denial with a redirect target answers 303 to it; a denial without one
// is a 403.
func Guard(name string, g ports.Guard, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			d := g.CanEnter(req.Context(), ports.Navigation{Method: req.Method, Path: req.URL.Path})
			if d.Allowed {
				metrics.GuardDecisionsTotal.WithLabelValues(name, "allow").Inc()
				return next(c)
			}

			log.Debug().
				Str("guard", name).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("redirect", d.Redirect).
				Msg("navigation denied")

			if d.Redirect != "" {
				metrics.GuardDecisionsTotal.WithLabelValues(name, "redirect").Inc()
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}
			metrics.GuardDecisionsTotal.WithLabelValues(name, "block").Inc()
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}
