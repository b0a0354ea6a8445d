// Package service provides the verdicts writer
package service

import (
	"context"
	"time"

	"trustrank/internal/modkit/repokit"
	perr "trustrank/internal/platform/errors"
	"trustrank/internal/platform/logger"
	dom "trustrank/internal/services/verdicts/domain"
	"trustrank/internal/services/verdicts/repo"

	"github.com/google/uuid"
)

// Service implements domain.WriterPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	log    logger.Logger
	now    func() time.Time
	// backoff is the wait before retry n (1-based)
	backoff func(n int) time.Duration
}

// maxAttempts bounds retries of transient write conflicts
const maxAttempts = 3

var _ dom.WriterPort = (*Service)(nil)

// New constructs the verdicts service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], log logger.Logger) *Service {
	if db == nil {
		panic("verdicts.Service requires a non nil TxRunner")
	}
	return &Service{
		db: db, binder: b, log: log, now: time.Now,
		backoff: func(n int) time.Duration { return time.Duration(n) * 50 * time.Millisecond },
	}
}

// WriteBatch implements domain.WriterPort. Missing ids and timestamps are filled in
func (s *Service) WriteBatch(ctx context.Context, xs []dom.VerdictWrite) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([]dom.VerdictWrite, len(xs))
	for i, v := range xs {
		if v.UserID == "" {
			return perr.InvalidArgf("verdict %d: user_id is required", i)
		}
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		if v.DecidedAt.IsZero() {
			v.DecidedAt = s.now().UTC()
		}
		if v.Reasons == nil {
			v.Reasons = []string{}
		}
		rows[i] = v
	}

	var n int64
	var err error
	for attempt := 1; ; attempt++ {
		err = s.db.Tx(ctx, func(q repokit.Queryer) error {
			var err error
			n, err = repokit.MustBind(s.binder, q).WriteBatch(ctx, rows)
			return err
		})
		if err == nil || attempt == maxAttempts || !perr.IsRetryable(err) {
			break
		}
		s.log.Warn().Err(err).Int("attempt", attempt).Msg("verdicts write conflict, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff(attempt)):
		}
	}
	if err != nil {
		return perr.FromPostgres(err, "verdicts: write batch")
	}
	if skipped := int64(len(rows)) - n; skipped > 0 {
		s.log.Debug().Int64("skipped", skipped).Int("batch", len(rows)).Msg("verdicts already recorded")
	}
	return nil
}
