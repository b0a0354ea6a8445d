package httpkit

import (
	"path"

	"trustrank/internal/modkit/swaggerkit"
	"trustrank/internal/platform/net/middleware"
)

// Protected mounts fn's routes behind api key auth and records them as secured
// for the swagger document. r is the /api/v1 scope. A nil port mounts them unguarded
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	if p == nil {
		fn(r)
		return
	}
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(&securedRouter{Router: gr, base: "/"})
	})
}

// securedRouter marks every verb it registers. base tracks Route nesting
type securedRouter struct {
	Router
	base string
}

func (s *securedRouter) Method(method, p string, h Handler) {
	swaggerkit.MarkSecurePath(path.Join(s.base, p), method)
	s.Router.Method(method, p, h)
}

func (s *securedRouter) Get(p string, h Handler)  { s.Method("GET", p, h) }
func (s *securedRouter) Post(p string, h Handler) { s.Method("POST", p, h) }

func (s *securedRouter) Group(fn func(Router)) {
	s.Router.Group(func(g Router) { fn(&securedRouter{Router: g, base: s.base}) })
}

func (s *securedRouter) Route(prefix string, fn func(Router)) {
	base := path.Join(s.base, prefix)
	s.Router.Route(prefix, func(sub Router) { fn(&securedRouter{Router: sub, base: base}) })
}
