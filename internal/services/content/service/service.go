// Package service provides post reads with window and limit policy applied
package service

import (
	"context"
	"strings"
	"time"

	"trustrank/internal/core/recommend"
	"trustrank/internal/modkit/repokit"
	perr "trustrank/internal/platform/errors"
	"trustrank/internal/services/content/domain"
	"trustrank/internal/services/content/repo"
)

// Config for the content service
type Config struct {
	// CandidateWindow bounds how far back candidates are read; defaults to 72h
	CandidateWindow time.Duration
	// CandidateLimit caps Candidates; defaults to 500
	CandidateLimit int
	// HardLimit caps ListPending pages; defaults to 5000
	HardLimit int
	Now       func() time.Time
}

// Service implements domain.ReaderPort and domain.PendingPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
}

var (
	_ domain.ReaderPort  = (*Service)(nil)
	_ domain.PendingPort = (*Service)(nil)
)

// New constructs a new content service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.CandidateWindow <= 0 {
		cfg.CandidateWindow = 72 * time.Hour
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 500
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 5000
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{DB: db, Binder: b, Cfg: cfg}
}

// Candidates implements domain.ReaderPort
func (s *Service) Candidates(ctx context.Context, in domain.CandidatesInput) ([]recommend.Item, error) {
	if strings.TrimSpace(in.ViewerID) == "" {
		return nil, perr.InvalidArgf("viewer id is required")
	}
	limit := in.Limit
	if limit <= 0 || limit > s.Cfg.CandidateLimit {
		limit = s.Cfg.CandidateLimit
	}
	since := in.Since
	if since.IsZero() {
		since = s.Cfg.Now().Add(-s.Cfg.CandidateWindow)
	}

	posts, err := repokit.MustBind(s.Binder, s.DB).Recent(ctx, in.ViewerID, since.UTC(), limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "content: candidates")
	}
	out := make([]recommend.Item, 0, len(posts))
	for _, p := range posts {
		out = append(out, recommend.Item{
			ID:        p.ID,
			AuthorID:  p.AuthorID,
			Text:      p.Content,
			HasMedia:  p.HasMedia,
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

// ListPending implements domain.PendingPort
func (s *Service) ListPending(ctx context.Context, since, until time.Time, after domain.AfterKey, limit int) ([]domain.Post, domain.AfterKey, error) {
	if !until.After(since) {
		return nil, domain.AfterKey{}, perr.InvalidArgf("until must be after since")
	}
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}

	var rows []domain.Post
	var next domain.AfterKey
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		rows, next, err = repokit.MustBind(s.Binder, q).Pending(ctx, since.UTC(), until.UTC(), after, limit)
		return err
	})
	if err != nil {
		return nil, domain.AfterKey{}, perr.FromPostgres(err, "content: list pending")
	}
	return rows, next, nil
}
