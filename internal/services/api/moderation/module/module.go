// Package module wires sentiment, fraud and moderation into the API
package module

import (
	"trustrank/internal/modkit"
	"trustrank/internal/modkit/httpkit"
	modhttp "trustrank/internal/services/api/moderation/http"
	modsvc "trustrank/internal/services/api/moderation/service"
	actdom "trustrank/internal/services/activity/domain"
	"trustrank/internal/services/engine"
	verdom "trustrank/internal/services/verdicts/domain"
)

// Ports are what moderation consumes, injected with modkit.WithPorts
type Ports struct {
	Engine   *engine.Engine // required
	History  actdom.ReaderPort
	Recorder actdom.RecorderPort
	Verdicts verdom.WriterPort
}

// Module serves /moderation and exposes its modsvc.Service as ports
type Module struct {
	*modkit.Base
}

// New builds the moderation module. CORE_MODERATION_PERSIST stores verdicts for
// requests carrying a post id
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("moderation"), modkit.WithPrefix("/moderation")}, opts...)...)

	in, _ := b.Injected().(Ports)
	if in.Engine == nil {
		panic("moderation module requires an Engine port (from services/engine)")
	}
	svc := modsvc.New(
		modsvc.Engines{Sentiment: in.Engine.Sentiment, Fraud: in.Engine.Fraud, Moderator: in.Engine.Moderator},
		modsvc.Deps{History: in.History, Recorder: in.Recorder, Verdicts: in.Verdicts},
		modsvc.Config{Persist: deps.Cfg.Prefix("CORE_MODERATION_").MayBool("PERSIST", false)},
	)

	b.Expose(modsvc.Service(svc))
	b.Routes(func(r httpkit.Router) { modhttp.Register(r, svc) })
	return &Module{Base: b}
}
