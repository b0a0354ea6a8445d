// Package domain defines the per-user activity window consumed by fraud checks
package domain

import (
	"context"
	"time"

	"trustrank/internal/core/fraud"
)

// Event is one recorded user action
type Event struct {
	UserID string
	Action fraud.Action
	PostID string // set for create_post
	At     time.Time
}

// Query bounds a history read
type Query struct {
	UserID     string
	Since      time.Time
	Until      time.Time // exclusive; zero reads up to the newest event
	MaxActions int
	MaxPosts   int
}

// ReaderPort loads a user's recent activity
type ReaderPort interface {
	History(ctx context.Context, userID string) (fraud.History, error)
	// HistoryAt is the window that ended at at, for judging a past action
	HistoryAt(ctx context.Context, userID string, at time.Time) (fraud.History, error)
}

// RecorderPort appends to a user's activity
type RecorderPort interface {
	Record(ctx context.Context, ev Event) error
}

// Store is implemented by each backend. History returns actions and posts oldest first
type Store interface {
	Append(ctx context.Context, ev Event) error
	History(ctx context.Context, q Query) (fraud.History, error)
}
