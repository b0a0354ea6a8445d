package middleware

import (
	"net/http"

	pnet "trustrank/internal/platform/net"
)

// AuthPort resolves the calling api client from a request
type AuthPort interface {
	// Parse returns the client id or an error when the caller is not allowed
	Parse(r *http.Request) (clientID string, err error)
}

// Auth rejects requests the port refuses and tags the context with the client id.
// A nil port lets every request through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Fail(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithRequest(r.Context(), pnet.RequestID(r.Context()), cid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
