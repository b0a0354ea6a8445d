// Package module wires the activity window to the configured backend
package module

import (
	"trustrank/internal/modkit"
	"trustrank/internal/services/activity/domain"
	"trustrank/internal/services/activity/repo"
	"trustrank/internal/services/activity/service"
)

// Ports exposed by the activity module
type Ports struct {
	Reader   domain.ReaderPort
	Recorder domain.RecorderPort
}

// Module is a backing module without routes
type Module struct {
	*modkit.Base
	backend string
}

// New constructs the activity module. A selected backend whose store is not
// wired falls back to the disabled backend with a warning
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	var (
		st      domain.Store = repo.Disabled{}
		backend              = BackendNone
	)
	switch {
	case opts.Backend == BackendRedis && deps.Redis != nil:
		st, backend = repo.NewRedis(deps.Redis, opts.Window, nil), BackendRedis
	case opts.Backend == BackendClickhouse && deps.CH != nil:
		st, backend = repo.NewCH(deps.CH), BackendClickhouse
	case opts.Backend != BackendNone:
		deps.Log.Warn().Str("backend", opts.Backend).Msg("activity backend not connected, fraud history disabled")
	}

	svc := service.New(st, service.Config{
		Window:     opts.Window,
		MaxActions: opts.MaxActions,
		MaxPosts:   opts.MaxPosts,
	})
	b := modkit.Build(modkit.WithName("activity"))
	b.Expose(Ports{Reader: svc, Recorder: svc})
	return &Module{Base: b, backend: backend}
}

// Backend reports the backend actually in use
func (m *Module) Backend() string { return m.backend }
