package domain

import (
	"context"

	"trustrank/internal/core/recommend"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Rank(ctx context.Context, in RankInput) (RankOutput, error)
	Score(ctx context.Context, in ScoreInput) (recommend.Score, error)
}

// ProfileReader loads the viewer's behavior profile
type ProfileReader interface {
	Get(ctx context.Context, userID string) (recommend.Profile, error)
}
