// Package middleware builds the HTTP middleware chain around chi and go-chi/cors
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	"trustrank/internal/platform/config"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options tune the common chain
type Options struct {
	CORSOrigins []string      // empty disables cross-origin responses
	Timeout     time.Duration // per request deadline
	Slow        time.Duration // access log warns at or above this
	MaxInFlight int           // 0 disables throttling
}

// OptionsFrom reads CORS_ORIGINS, REQUEST_TIMEOUT, SLOW_REQUEST and MAX_IN_FLIGHT
func OptionsFrom(c config.Conf) Options {
	return Options{
		CORSOrigins: c.MayCSV("CORS_ORIGINS", nil),
		Timeout:     c.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		Slow:        c.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		MaxInFlight: c.MayInt("MAX_IN_FLIGHT", 0),
	}
}

// Stack returns the chain every API route runs behind, outermost first
func Stack(o Options) []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		AccessLog(o.Slow),
		RecoverJSON,
		chimw.NoCache,
		chimw.StripSlashes,
		chimw.NewCompressor(flate.BestSpeed).Handler,
	}
	if len(o.CORSOrigins) > 0 {
		mw = append(mw, cors.Handler(cors.Options{
			AllowedOrigins: o.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
	if o.MaxInFlight > 0 {
		mw = append(mw, chimw.Throttle(o.MaxInFlight))
	}
	if o.Timeout > 0 {
		mw = append(mw, chimw.Timeout(o.Timeout))
	}
	return mw
}

// Health answers GET or HEAD /health with 200 for liveness probes. Mount it on
// the root router, outside Stack, so probes skip logging and auth
func Health() http.Handler {
	return chimw.Heartbeat("/health")(http.NotFoundHandler())
}
