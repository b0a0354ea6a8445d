// Package module wires feed ranking into the API
package module

import (
	"trustrank/internal/core/recommend"
	"trustrank/internal/modkit"
	"trustrank/internal/modkit/httpkit"
	"trustrank/internal/services/api/feed/domain"
	feedhttp "trustrank/internal/services/api/feed/http"
	feedsvc "trustrank/internal/services/api/feed/service"
	contentdom "trustrank/internal/services/content/domain"
)

// Ports are what the feed consumes, injected with modkit.WithPorts
type Ports struct {
	Profiles domain.ProfileReader // required
	Content  contentdom.ReaderPort
	Scorer   *recommend.Scorer
}

// Module serves /feed and exposes its feedsvc.Service as ports
type Module struct {
	*modkit.Base
}

// New builds the feed module. CORE_FEED_DEFAULT_LIMIT caps unbounded rank requests
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("feed"), modkit.WithPrefix("/feed")}, opts...)...)

	in, _ := b.Injected().(Ports)
	if in.Profiles == nil {
		panic("feed module requires a Profiles port (from services/profiles)")
	}
	svc := feedsvc.New(in.Profiles, in.Content, in.Scorer, feedsvc.Config{
		DefaultLimit: deps.Cfg.Prefix("CORE_FEED_").MayInt("DEFAULT_LIMIT", 50),
	})

	b.Expose(feedsvc.Service(svc))
	b.Routes(func(r httpkit.Router) { feedhttp.Register(r, svc) })
	return &Module{Base: b}
}
