// Package module wires the content candidate and pending readers
package module

import (
	"trustrank/internal/modkit"
	"trustrank/internal/services/content/domain"
	"trustrank/internal/services/content/repo"
	"trustrank/internal/services/content/service"
)

// Ports exposed by the content module
type Ports struct {
	Reader  domain.ReaderPort
	Pending domain.PendingPort
}

// Module is a backing module without routes
type Module struct {
	*modkit.Base
}

// New builds the content service over deps.PG
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)
	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		CandidateWindow: opts.CandidateWindow,
		CandidateLimit:  opts.CandidateLimit,
		HardLimit:       opts.HardLimit,
	})
	b := modkit.Build(modkit.WithName("content"))
	b.Expose(Ports{Reader: svc, Pending: svc})
	return &Module{Base: b}
}
