package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perrs "trustrank/internal/platform/errors"
)

// TokenFunc resolves a bearer token to the api client that owns it
type TokenFunc func(token string) (clientID string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// NewKeyPort builds a Port over static api keys given as "client:key" entries.
// It returns nil when no entries are configured
func NewKeyPort(entries []string) (*Port, error) {
	keys := map[string]string{} // key -> client
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		client, key, ok := strings.Cut(e, ":")
		client, key = strings.TrimSpace(client), strings.TrimSpace(key)
		if !ok || client == "" || key == "" {
			return nil, perrs.InvalidArgf("api key entry %q must be client:key", e)
		}
		if prev, dup := keys[key]; dup && prev != client {
			return nil, perrs.InvalidArgf("api key shared by %q and %q", prev, client)
		}
		keys[key] = client
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return NewPortFunc(func(tok string) (string, error) {
		for k, client := range keys {
			if subtle.ConstantTimeCompare([]byte(k), []byte(tok)) == 1 {
				return client, nil
			}
		}
		return "", perrs.Unauthorizedf("unknown api key")
	}), nil
}

// Parse extracts the client id from an Authorization Bearer token
// returns unauthorized when the header is missing, malformed, or the parser returns an error
func (p *Port) Parse(r *http.Request) (string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	if s == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	const prefix = "bearer"
	if !strings.HasPrefix(strings.ToLower(s), prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	// slice after "Bearer" (no trailing space required), then trim any spaces before token
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}

	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}

	cid, err := p.parse(raw)
	if err != nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return cid, nil
}
