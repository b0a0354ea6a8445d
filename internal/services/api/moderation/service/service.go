// Package service contains the moderation workflows behind the API
package service

import (
	"context"
	"time"

	"trustrank/internal/core/fraud"
	"trustrank/internal/core/moderation"
	"trustrank/internal/core/sentiment"
	"trustrank/internal/platform/logger"
	"trustrank/internal/platform/metrics"
	"trustrank/internal/services/api/moderation/domain"
	actdom "trustrank/internal/services/activity/domain"
	verdom "trustrank/internal/services/verdicts/domain"
)

// Service defines the moderation service contract
type Service interface {
	domain.ServicePort
}

// Engines are the stateless analyzers the service delegates to
type Engines struct {
	Sentiment moderation.Analyzer
	Fraud     moderation.RiskDetector
	Moderator *moderation.Aggregator
}

// Deps are the optional stores behind the service. A nil History means an
// empty window, a nil Recorder skips recording, a nil Verdicts disables persistence
type Deps struct {
	History  actdom.ReaderPort
	Recorder actdom.RecorderPort
	Verdicts verdom.WriterPort
}

// Config for the moderation service
type Config struct {
	Persist bool // write a verdict row per /moderate call
	Now     func() time.Time
}

// Svc implements the moderation service
type Svc struct {
	eng  Engines
	deps Deps
	cfg  Config
}

// New constructs a moderation service
func New(eng Engines, deps Deps, cfg Config) *Svc {
	if eng.Moderator == nil {
		panic("moderation.Service requires a non nil Moderator")
	}
	if eng.Sentiment == nil {
		eng.Sentiment = sentiment.New()
	}
	if eng.Fraud == nil {
		eng.Fraud = fraud.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Svc{eng: eng, deps: deps, cfg: cfg}
}

// Analyze classifies text
func (s *Svc) Analyze(_ context.Context, in domain.AnalyzeInput) (sentiment.Result, error) {
	return s.eng.Sentiment.Analyze(in.Text), nil
}

// Fraud scores one action against the user's recent activity
func (s *Svc) Fraud(ctx context.Context, in domain.FraudInput) (fraud.Signal, error) {
	h := s.history(ctx, in.UserID)
	sig := s.eng.Fraud.Detect(in.UserID, fraud.Action(in.Action), in.Payload(), h)
	if sig.IsFraudulent {
		metrics.FraudFlagged()
	}
	return sig, nil
}

// Moderate decides a post submission, records it in the activity window and
// persists the verdict when enabled. Recording and persisting fail open: the
// decision is returned even when either write fails
func (s *Svc) Moderate(ctx context.Context, in domain.ModerateInput) (moderation.Decision, error) {
	h := s.history(ctx, in.UserID)
	d := s.eng.Moderator.Moderate(ctx, in.Content, in.UserID, h)

	metrics.ModerationDecision(d.IsApproved)
	if d.Fraud.IsFraudulent {
		metrics.FraudFlagged()
	}

	at := s.cfg.Now()
	if s.deps.Recorder != nil {
		ev := actdom.Event{UserID: in.UserID, Action: fraud.ActionCreatePost, PostID: in.PostID, At: at}
		if err := s.deps.Recorder.Record(ctx, ev); err != nil {
			logger.C(ctx).Warn().Err(err).Str("user_id", in.UserID).Msg("activity record failed")
		}
	}

	if s.cfg.Persist && s.deps.Verdicts != nil {
		v := verdom.FromDecision(in.PostID, in.UserID, verdom.SourceAPI, d, at)
		if err := s.deps.Verdicts.WriteBatch(ctx, []verdom.VerdictWrite{v}); err != nil {
			logger.C(ctx).Warn().Err(err).Str("user_id", in.UserID).Str("post_id", in.PostID).Msg("verdict write failed")
			metrics.FailOpen("verdicts")
		}
	}
	return d, nil
}

// history loads the window, falling back to an empty one when the store is down
func (s *Svc) history(ctx context.Context, userID string) fraud.History {
	if s.deps.History == nil {
		return fraud.History{}
	}
	h, err := s.deps.History.History(ctx, userID)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("user_id", userID).Msg("activity history unavailable, using empty window")
		metrics.FailOpen("activity")
		return fraud.History{}
	}
	return h
}
