// Package module wires the profiles reader
package module

import (
	"trustrank/internal/modkit"
	"trustrank/internal/services/profiles/domain"
	"trustrank/internal/services/profiles/repo"
	"trustrank/internal/services/profiles/service"
)

// Ports exposed by the profiles module
type Ports struct {
	Reader domain.ReaderPort
}

// Module is a backing module without routes
type Module struct {
	*modkit.Base
}

// New builds the cached profile reader; deps.PG is required
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)
	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		CacheSize: opts.CacheSize,
		CacheTTL:  opts.CacheTTL,
	})
	b := modkit.Build(modkit.WithName("profiles"))
	b.Expose(Ports{Reader: svc})
	return &Module{Base: b}
}
