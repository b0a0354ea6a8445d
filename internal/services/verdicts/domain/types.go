// Package domain defines persisted moderation verdicts
package domain

import (
	"context"
	"time"

	"trustrank/internal/core/moderation"
	"trustrank/internal/core/version"
)

// Sources of a verdict
const (
	SourceAPI   = "api"
	SourceSweep = "sweep"
)

// VerdictWrite is one moderation decision to persist
type VerdictWrite struct {
	ID              string // assigned by the service when empty
	PostID          string // empty for ad hoc API checks
	UserID          string
	Approved        bool
	ModerationScore float64
	Toxicity        float64
	RiskScore       float64
	Sentiment       string
	Reasons         []string
	EngineVersion   int
	Source          string
	DecidedAt       time.Time
}

// FromDecision flattens a decision into a write
func FromDecision(postID, userID, source string, d moderation.Decision, at time.Time) VerdictWrite {
	reasons := append([]string{}, d.Fraud.Reasons...)
	return VerdictWrite{
		PostID:          postID,
		UserID:          userID,
		Approved:        d.IsApproved,
		ModerationScore: d.ModerationScore,
		Toxicity:        d.Sentiment.Toxicity,
		RiskScore:       d.Fraud.RiskScore,
		Sentiment:       string(d.Sentiment.Sentiment),
		Reasons:         reasons,
		EngineVersion:   version.EngineVersion,
		Source:          source,
		DecidedAt:       at.UTC(),
	}
}

// WriterPort persists verdicts
type WriterPort interface {
	WriteBatch(ctx context.Context, xs []VerdictWrite) error
}
