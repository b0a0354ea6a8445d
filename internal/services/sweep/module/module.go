// Package module implements the sweep module
package module

import (
	"trustrank/internal/core/moderation"
	"trustrank/internal/modkit"
	"trustrank/internal/services/sweep/domain"
	"trustrank/internal/services/sweep/service"
)

// Ports exposed by the sweep module
type Ports struct {
	Runner domain.RunnerPort
}

// Module is a backing module without routes
type Module struct {
	*modkit.Base
}

// New constructs a sweep module. overrides win over CORE_SWEEP_* for non-zero
// fields; DryRun is on when either enables it
func New(deps modkit.Deps, mod *moderation.Aggregator, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("sweep"),
	}, opts...)...)

	ports, ok := b.Injected().(domain.Ports)
	if !ok {
		panic("sweep module: expected WithPorts(sweep/domain.Ports)")
	}
	if ports.Pending == nil {
		panic("sweep module: Ports missing Pending")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.PageSize != 0 {
		cfg.PageSize = overrides.PageSize
	}
	if overrides.MaxRangeHours != 0 {
		cfg.MaxRangeHours = overrides.MaxRangeHours
	}
	cfg.DryRun = cfg.DryRun || overrides.DryRun

	runner := service.New(ports, mod, service.Config{
		Workers:       cfg.Workers,
		PageSize:      cfg.PageSize,
		MaxRangeHours: cfg.MaxRangeHours,
		DryRun:        cfg.DryRun,
	})
	b.Expose(Ports{Runner: runner})
	return &Module{Base: b}
}
