// Package domain defines post reads for ranking and moderation sweeps
package domain

import "time"

// AfterKey supports stable keyset pagination over (created_at, id)
type AfterKey struct {
	CreatedAt time.Time
	ID        string
}

// Post is the stored post view shared by feed and sweep
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	Links     []string
	HasMedia  bool
	CreatedAt time.Time
}

// CandidatesInput selects recent posts a viewer could be shown
type CandidatesInput struct {
	ViewerID string
	Since    time.Time // zero means the configured window
	Limit    int       // hard-capped in service
}
