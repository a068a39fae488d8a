package transport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
)

// TokenSource yields the current bearer token, if any.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// BearerToken attaches "Authorization: Bearer <token>" when a token is stored.
// Requests that already carry an Authorization header, and all requests made
// without a stored token, pass through unchanged.
func BearerToken(src TokenSource) RequestTransform {
	return func(req *http.Request) (*http.Request, error) {
		if req.Header.Get(HeaderAuthorization) != "" {
			return req, nil
		}
		tok, ok := src.Token(req.Context())
		if !ok || tok == "" {
			return req, nil
		}
		out := req.Clone(req.Context())
		out.Header.Set(HeaderAuthorization, "Bearer "+tok)
		return out, nil
	}
}

// RequestID tags the request with a fresh X-Request-ID unless one is set.
func RequestID() RequestTransform {
	return func(req *http.Request) (*http.Request, error) {
		if req.Header.Get(HeaderRequestID) != "" {
			return req, nil
		}
		out := req.Clone(req.Context())
		out.Header.Set(HeaderRequestID, uuid.NewString())
		return out, nil
	}
}

// AcceptJSON asks the backend for JSON unless an Accept header is set.
func AcceptJSON() RequestTransform {
	return func(req *http.Request) (*http.Request, error) {
		if req.Header.Get("Accept") != "" {
			return req, nil
		}
		out := req.Clone(req.Context())
		out.Header.Set("Accept", "application/json")
		return out, nil
	}
}
