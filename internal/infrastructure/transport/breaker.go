package transport

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects calls to the backend.
var ErrCircuitOpen = errors.New("backend circuit open")

var errServerStatus = errors.New("backend 5xx")

// BreakerConfig tunes the circuit breaker around backend calls.
type BreakerConfig struct {
	Name        string
	MaxFailures uint32
	OpenTimeout time.Duration
	// OnStateChange, when set, is called on every breaker transition.
	OnStateChange func(name string, from, to gobreaker.State)
}

// Breaker is a RoundTripper that stops calling the backend after MaxFailures
// consecutive transport errors or 5xx responses, for OpenTimeout.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker
	next http.RoundTripper
}

func NewBreaker(cfg BreakerConfig, next http.RoundTripper) *Breaker {
	if next == nil {
		next = http.DefaultTransport
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	return &Breaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: 1,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: cfg.OnStateChange,
		}),
		next: next,
	}
}

func (b *Breaker) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		resp, err := b.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	case errors.Is(err, errServerStatus):
		return res.(*http.Response), nil
	case err != nil:
		return nil, err
	}
	return res.(*http.Response), nil
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}
