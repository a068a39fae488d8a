// Package transport builds the outgoing HTTP stack used to talk to the backend:
// an ordered pipeline of request transforms in front of a RoundTripper.
package transport

import (
	"fmt"
	"net/http"
)

// RequestTransform returns the request to send in place of req. A transform
// must not modify req; it returns req itself or a clone.
type RequestTransform func(req *http.Request) (*http.Request, error)

// Pipeline applies its transforms in order, then hands the result to next.
type Pipeline struct {
	transforms []RequestTransform
	next       http.RoundTripper
}

// NewPipeline returns a Pipeline over next (http.DefaultTransport when nil).
func NewPipeline(next http.RoundTripper, transforms ...RequestTransform) *Pipeline {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Pipeline{
		transforms: append([]RequestTransform(nil), transforms...),
		next:       next,
	}
}

// Apply runs the transforms without dispatching the request.
func (p *Pipeline) Apply(req *http.Request) (*http.Request, error) {
	for i, t := range p.transforms {
		out, err := t(req)
		if err != nil {
			return nil, fmt.Errorf("request transform %d: %w", i, err)
		}
		req = out
	}
	return req, nil
}

func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	out, err := p.Apply(req)
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}
	return p.next.RoundTrip(out)
}
