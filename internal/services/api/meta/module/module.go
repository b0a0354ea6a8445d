// Package module mounts the meta endpoints
package module

import (
	"context"
	"time"

	"trustrank/internal/core/lexicon"
	"trustrank/internal/modkit"
	"trustrank/internal/modkit/httpkit"
	metahttp "trustrank/internal/services/api/meta/http"

	"github.com/redis/go-redis/v9"
)

// Module serves /meta. It consumes and exposes no ports
type Module struct {
	*modkit.Base
}

// New builds the meta module with readiness checks for every wired store
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	d := metahttp.Deps{
		ServiceName: "trustrank-api",
		StartedAt:   time.Now(),
		Lexicon:     lexicon.MustDefault(),
		Checks:      checks(deps),
	}
	b.Routes(func(r httpkit.Router) { metahttp.Register(r, d) })
	return &Module{Base: b}
}

func checks(deps modkit.Deps) map[string]metahttp.Pinger {
	out := map[string]metahttp.Pinger{}
	if p, ok := deps.PG.(metahttp.Pinger); ok {
		out["pg"] = p
	}
	if p, ok := deps.CH.(metahttp.Pinger); ok {
		out["ch"] = p
	}
	if deps.Redis != nil {
		out["redis"] = redisPing{deps.Redis}
	}
	return out
}

type redisPing struct{ c redis.UniversalClient }

func (r redisPing) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }
