// Package modkit provides module wiring and core deps
package modkit

import (
	"trustrank/internal/modkit/repokit"
	"trustrank/internal/platform/config"
	"trustrank/internal/platform/logger"
	"trustrank/internal/platform/store"

	"github.com/redis/go-redis/v9"
)

// Deps are the shared handles modules build from. Store seams are nil when not configured
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	CH    store.Clickhouse
	Redis redis.UniversalClient
}

// FromStore copies the configured seams of st into a Deps
func FromStore(st *store.Store, cfg config.Conf, log logger.Logger) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.PG = st.PG
		d.CH = st.CH
		d.Redis = st.Redis
	}
	return d
}
