// Package service implements the moderation sweep
package service

import (
	"context"
	"errors"
	"time"

	"trustrank/internal/core/fraud"
	"trustrank/internal/core/moderation"
	"trustrank/internal/platform/logger"
	"trustrank/internal/platform/metrics"
	actdom "trustrank/internal/services/activity/domain"
	contentdom "trustrank/internal/services/content/domain"
	"trustrank/internal/services/sweep/domain"
	verdom "trustrank/internal/services/verdicts/domain"

	"golang.org/x/sync/errgroup"
)

// Config for the sweep service
type Config struct {
	Workers       int
	PageSize      int
	MaxRangeHours int // 0 = unlimited
	DryRun        bool
	Now           func() time.Time
}

// Service implements domain.RunnerPort
type Service struct {
	Pending  contentdom.PendingPort
	Verdicts verdom.WriterPort
	History  actdom.ReaderPort
	Mod      *moderation.Aggregator
	Cfg      Config
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs a sweep service
func New(ports domain.Ports, mod *moderation.Aggregator, cfg Config) *Service {
	if ports.Pending == nil || mod == nil {
		panic("sweep.Service requires Pending and a Moderator")
	}
	if ports.Verdicts == nil && !cfg.DryRun {
		panic("sweep.Service requires Verdicts unless DryRun")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		Pending:  ports.Pending,
		Verdicts: ports.Verdicts,
		History:  ports.History,
		Mod:      mod,
		Cfg:      cfg,
	}
}

// RunRange moderates posts created in [start, end), hour aligned, that have no
// verdict yet and writes one verdict per post
func (s *Service) RunRange(ctx context.Context, start, end time.Time) (domain.Report, error) {
	start = start.Truncate(time.Hour).UTC()
	end = end.Truncate(time.Hour).UTC()
	var rep domain.Report
	if !end.After(start) {
		return rep, errors.New("sweep: end must be after start")
	}
	if s.Cfg.MaxRangeHours > 0 && int(end.Sub(start).Hours()) > s.Cfg.MaxRangeHours {
		return rep, errors.New("sweep: range exceeds MaxRangeHours")
	}

	log := logger.C(ctx).With().Str("component", "sweep").Time("start", start).Time("end", end).Logger()
	after := contentdom.AfterKey{}
	for {
		posts, next, err := s.Pending.ListPending(ctx, start, end, after, s.Cfg.PageSize)
		if err != nil {
			return rep, err
		}
		if len(posts) == 0 {
			log.Info().Interface("report", rep).Msg("sweep done")
			return rep, nil
		}
		rep.Pages++

		out, err := s.moderatePage(ctx, posts)
		if err != nil {
			return rep, err
		}
		for _, v := range out {
			rep.Processed++
			if v.Approved {
				rep.Approved++
			} else {
				rep.Rejected++
			}
			metrics.SweepProcessed(v.Approved)
		}

		if !s.Cfg.DryRun {
			if err := s.Verdicts.WriteBatch(ctx, out); err != nil {
				return rep, err
			}
			rep.Written += len(out)
		}
		log.Debug().Int("page", rep.Pages).Int("posts", len(posts)).Msg("sweep page")
		after = next
	}
}

// moderatePage moderates posts with bounded concurrency as of when each was
// created: the activity window ends at CreatedAt and the time-of-day check reads
// it, so verdicts do not depend on when the sweep runs. Output order matches posts
func (s *Service) moderatePage(ctx context.Context, posts []contentdom.Post) ([]verdom.VerdictWrite, error) {
	decided := s.Cfg.Now()

	out := make([]verdom.VerdictWrite, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Cfg.Workers)
	for i := range posts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := posts[i]
			h := s.historyAt(gctx, p.AuthorID, p.CreatedAt)
			d := s.Mod.ModerateAt(gctx, p.Content, p.AuthorID, h, p.CreatedAt)
			out[i] = verdom.FromDecision(p.ID, p.AuthorID, verdom.SourceSweep, d, decided)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// historyAt fails open to an empty window
func (s *Service) historyAt(ctx context.Context, author string, at time.Time) fraud.History {
	if s.History == nil {
		return fraud.History{}
	}
	h, err := s.History.HistoryAt(ctx, author, at)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("user_id", author).Msg("sweep: history unavailable, using empty window")
		metrics.FailOpen("activity")
		return fraud.History{}
	}
	return h
}
