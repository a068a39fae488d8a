package ports

import "context"

// Navigation describes the route a guard is asked about.
type Navigation struct {
	Method string
	Path   string
}

// Decision is the outcome of a guard. A denied decision may carry a redirect target.
type Decision struct {
	Allowed  bool
	Redirect string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(redirect string) Decision { return Decision{Redirect: redirect} }

// Guard decides whether a navigation may proceed. Evaluation is synchronous.
type Guard interface {
	CanEnter(ctx context.Context, nav Navigation) Decision
}
