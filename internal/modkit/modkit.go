// Package modkit assembles service modules: shared deps, build options and
// the Base every module embeds
package modkit

import (
	"net/http"
	"strings"

	"trustrank/internal/modkit/httpkit"
	"trustrank/internal/modkit/module"
)

// Module is the contract the API and the sweep compose
type Module = module.Module

// Base implements Module. Routed modules give it a prefix and routes, backing
// modules only a name and their exposed ports
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	inject any
	ports  any
	routes []func(httpkit.Router)
}

// Build applies opts. A module without a name is a wiring bug and panics
func Build(opts ...Option) *Base {
	b := &Base{}
	for _, o := range opts {
		o(b)
	}
	if strings.TrimSpace(b.name) == "" {
		panic("modkit: module name is required")
	}
	if p := strings.Trim(b.prefix, " /"); p != "" {
		b.prefix = "/" + p
	} else {
		b.prefix = ""
	}
	return b
}

// Name is the module name used in logs and port lookups
func (b *Base) Name() string { return b.name }

// Prefix is the normalized route prefix, empty for backing modules
func (b *Base) Prefix() string { return b.prefix }

// Injected returns what WithPorts supplied
func (b *Base) Injected() any { return b.inject }

// Expose sets the value Ports returns
func (b *Base) Expose(p any) { b.ports = p }

// Ports returns the exposed port set
func (b *Base) Ports() any { return b.ports }

// Routes appends a route registration run by MountRoutes
func (b *Base) Routes(fn func(httpkit.Router)) {
	if fn != nil {
		b.routes = append(b.routes, fn)
	}
}

// MountRoutes registers the routes under the prefix behind the module middleware.
// Modules without routes mount nothing
func (b *Base) MountRoutes(r httpkit.Router) {
	if len(b.routes) == 0 {
		return
	}
	mount := func(rr httpkit.Router) {
		rr.Use(b.mw...)
		for _, fn := range b.routes {
			fn(rr)
		}
	}
	if b.prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(b.prefix, mount)
}
