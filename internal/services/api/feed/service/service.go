// Package service contains feed ranking workflows
package service

import (
	"context"

	"trustrank/internal/core/recommend"
	"trustrank/internal/platform/metrics"
	"trustrank/internal/services/api/feed/domain"
	contentdom "trustrank/internal/services/content/domain"
)

// Service defines the feed service contract
type Service interface {
	domain.ServicePort
}

// Config for the feed service
type Config struct {
	DefaultLimit int // used when a request omits limit; defaults to 50
}

// Svc implements the feed service
type Svc struct {
	profiles domain.ProfileReader
	content  contentdom.ReaderPort
	scorer   *recommend.Scorer
	cfg      Config
}

// New constructs a feed service. content may be nil, in which case Rank
// requires caller-supplied items
func New(profiles domain.ProfileReader, content contentdom.ReaderPort, scorer *recommend.Scorer, cfg Config) *Svc {
	if profiles == nil {
		panic("feed.Service requires a non nil ProfileReader")
	}
	if scorer == nil {
		scorer = recommend.New()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	return &Svc{profiles: profiles, content: content, scorer: scorer, cfg: cfg}
}

// Rank scores the items for the viewer and returns the best first
func (s *Svc) Rank(ctx context.Context, in domain.RankInput) (domain.RankOutput, error) {
	p, err := s.profiles.Get(ctx, in.UserID)
	if err != nil {
		return domain.RankOutput{}, err
	}
	limit := in.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	items := make([]recommend.Item, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, it.Item())
	}
	if len(items) == 0 && s.content != nil {
		if items, err = s.content.Candidates(ctx, contentdom.CandidatesInput{ViewerID: in.UserID}); err != nil {
			return domain.RankOutput{}, err
		}
	}

	metrics.RankCandidates(len(items))
	return domain.RankOutput{
		UserID:     in.UserID,
		Candidates: len(items),
		Results:    s.scorer.Rank(items, p, limit),
	}, nil
}

// Score scores one item for the viewer
func (s *Svc) Score(ctx context.Context, in domain.ScoreInput) (recommend.Score, error) {
	p, err := s.profiles.Get(ctx, in.UserID)
	if err != nil {
		return recommend.Score{}, err
	}
	return s.scorer.Score(in.Item.Item(), p), nil
}
