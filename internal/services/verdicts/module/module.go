// Package module wires the verdict writer
package module

import (
	"trustrank/internal/modkit"
	"trustrank/internal/services/verdicts/domain"
	"trustrank/internal/services/verdicts/repo"
	"trustrank/internal/services/verdicts/service"
)

// Ports exposed by the verdicts module
type Ports struct {
	Writer domain.WriterPort
}

// Module is a backing module without routes
type Module struct {
	*modkit.Base
}

// New builds the verdict writer over deps.PG
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG(), deps.Log.With().Str("module", "verdicts").Logger())
	b := modkit.Build(modkit.WithName("verdicts"))
	b.Expose(Ports{Writer: svc})
	return &Module{Base: b}
}
