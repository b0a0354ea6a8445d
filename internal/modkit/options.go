package modkit

import (
	"net/http"

	"trustrank/internal/modkit/httpkit"
)

// Option configures a Base under construction
type Option func(*Base)

// WithName names the module
func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix mounts the module's routes under prefix
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares wraps only this module's routes
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mw = append(b.mw, mw...) }
}

// WithPorts hands the module the ports it consumes from other modules. The
// concrete type is owned by the consuming module
func WithPorts[T any](p T) Option { return func(b *Base) { b.inject = p } }

// WithRoutes adds routes next to the module's own, e.g. test probes
func WithRoutes(fn func(httpkit.Router)) Option {
	return func(b *Base) { b.Routes(fn) }
}
