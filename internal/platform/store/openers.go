package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trustrank/internal/platform/logger"
	chx "trustrank/internal/platform/store/ch"
	"trustrank/internal/platform/store/pg"
	"trustrank/internal/platform/store/rds"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// pgBackoff is the wait schedule between postgres pings at boot
var pgBackoff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 150 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// openPG builds the pool and waits for it to answer a ping. The pool is pinged
// directly so the boot loop does not show up in sql traces
func openPG(ctx context.Context, cfg Config, log logger.Logger) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	retries, timeout := cfg.PG.ConnectRetries, cfg.PG.PingTimeout
	if retries <= 0 {
		retries = 6
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Pool.Ping(pctx)
	}
	wait := backoff.WithContext(backoff.WithMaxRetries(pgBackoff(), uint64(retries)), ctx)
	err = backoff.RetryNotify(ping, wait, func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("postgres not ready")
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config, log logger.Logger) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:          cfg.CH.URL,
		Role:         cfg.CH.Role,
		Tag:          cfg.AppName,
		MaxOpenConns: cfg.CH.MaxOpenConns,
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("role", cfg.CH.Role).Msg("clickhouse client info set")
	return chSeam{c}, nil
}

func openRedis(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	c, err := rds.Open(ctx, rds.Config{URL: cfg.RDS.URL, Addr: cfg.RDS.Addr, DB: cfg.RDS.DB})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// chSeam narrows *chx.CH to Clickhouse. Inserts take [][]any in column order
type chSeam struct{ c *chx.CH }

func (s chSeam) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return errors.New("store: clickhouse insert wants [][]any")
	}
	return s.c.Insert(ctx, table, rows)
}

func (s chSeam) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := s.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

func (s chSeam) Ping(ctx context.Context) error { return s.c.Ping(ctx) }
func (s chSeam) Close() error                   { return s.c.Close() }

// chRows drops the Close error so ch rows satisfy Rows
type chRows struct{ chx.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
