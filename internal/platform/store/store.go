// Package store opens the optional backends (postgres, clickhouse, redis)
// behind small seams the repos depend on
package store

import (
	"context"
	"errors"
	"fmt"

	"trustrank/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Store holds whichever backends were enabled. The zero value has none and is
// safe to Guard and Close
type Store struct {
	Log logger.Logger

	PG    TxRunner              // nil unless SERVICE_PGSQL_DBURL is set
	CH    Clickhouse            // nil unless SERVICE_CLICKHOUSE_DBURL is set
	Redis redis.UniversalClient // nil unless SERVICE_REDIS_URL or ADDR is set
}

// Row scans a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a write did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is what repos run sql against, a pool or an open transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner adds transactions to RowQuerier
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam used by the activity window
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Open dials every backend enabled in cfg in order pg, ch, redis. A failure
// closes what was already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	steps := []struct {
		on   bool
		name string
		open func() error
	}{
		{cfg.PG.Enabled, "pg", func() (err error) { s.PG, err = openPG(ctx, cfg, s.Log); return }},
		{cfg.CH.Enabled, "ch", func() (err error) { s.CH, err = openCH(ctx, cfg, s.Log); return }},
		{cfg.RDS.Enabled, "redis", func() (err error) { s.Redis, err = openRedis(ctx, cfg); return }},
	}
	for _, st := range steps {
		if !st.on {
			continue
		}
		if err := st.open(); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("store: open %s: %w", st.name, err)
		}
		s.Log.Info().Str("backend", st.name).Msg("backend connected")
	}
	return s, nil
}

type seam struct {
	name  string
	ping  func(context.Context) error // nil when the backend cannot be pinged
	close func() error
}

// seams lists the wired backends in open order
func (s *Store) seams() []seam {
	var out []seam
	if s.PG != nil {
		out = append(out, seam{"pg", pingOf(s.PG), closeOf(s.PG)})
	}
	if s.CH != nil {
		out = append(out, seam{"ch", pingOf(s.CH), s.CH.Close})
	}
	if s.Redis != nil {
		rc := s.Redis
		out = append(out, seam{"redis", func(ctx context.Context) error { return rc.Ping(ctx).Err() }, rc.Close})
	}
	return out
}

func pingOf(v any) func(context.Context) error {
	if p, ok := v.(Pinger); ok {
		return p.Ping
	}
	return nil
}

func closeOf(v any) func() error {
	if c, ok := v.(interface{ Close() error }); ok {
		return c.Close
	}
	return func() error { return nil }
}

// Guard pings every wired backend that can be pinged and joins the failures
// as "<name>: <err>"
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, b := range s.seams() {
		if b.ping == nil {
			continue
		}
		if err := b.ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every wired backend in reverse open order
func (s *Store) Close(context.Context) error {
	var errs []error
	all := s.seams()
	for i := len(all) - 1; i >= 0; i-- {
		if err := all[i].close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", all[i].name, err))
		}
	}
	return errors.Join(errs...)
}
