package domain

import (
	"context"
	"time"

	"trustrank/internal/core/recommend"
)

// ReaderPort loads feed candidates
type ReaderPort interface {
	// Candidates returns recent posts excluding the viewer's own, newest first
	Candidates(ctx context.Context, in CandidatesInput) ([]recommend.Item, error)
}

// PendingPort pages posts awaiting a moderation verdict
type PendingPort interface {
	// ListPending returns up to limit posts in [since, until) ordered by (created_at, id)
	ListPending(ctx context.Context, since, until time.Time, after AfterKey, limit int) ([]Post, AfterKey, error)
}
