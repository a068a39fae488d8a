// Package metrics defines the console's Prometheus metrics. It is the single
// source of truth for metric names, labels and help strings.
//
// All metrics are registered with the default registry through promauto when
// the package is imported; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cms_console"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login form submissions.
// Label:
//   - result: "success", "failure" or "in_progress" (rejected while another was pending)
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LoginThrottledTotal counts login submissions rejected by the rate limiter.
var LoginThrottledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_throttled_total",
		Help:      "Total number of login submissions rejected by the rate limiter.",
	},
)

// SessionAuthenticated is 1 while an operator is signed in.
var SessionAuthenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_authenticated",
		Help:      "1 while an operator session is active, 0 otherwise.",
	},
)

// ── Navigation metrics ────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - guard: guard name (e.g. "authenticated", "admin", "editor")
//   - decision: "allow", "redirect" or "block"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"guard", "decision"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the backend REST API. It is fed by
// promhttp.InstrumentRoundTripperDuration, which supplies both labels.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the backend API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"code", "method"},
)

// BackendBreakerState reports the backend circuit breaker state per breaker:
// 0 closed, 1 half-open, 2 open.
var BackendBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_breaker_state",
		Help:      "Backend circuit breaker state (0 closed, 1 half-open, 2 open).",
	},
	[]string{"name"},
)

// ObserveSession keeps SessionAuthenticated in step with a session signal.
func ObserveSession(authenticated bool) {
	if authenticated {
		SessionAuthenticated.Set(1)
		return
	}
	SessionAuthenticated.Set(0)
}
