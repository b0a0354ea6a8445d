// Package moderation combines sentiment and fraud analysis into a publish decision
package moderation

import (
	"context"
	"fmt"
	"time"

	"trustrank/internal/core/fraud"
	"trustrank/internal/core/sentiment"
	"trustrank/internal/core/unit"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxToxicity is the exclusive toxicity ceiling for approval
const maxToxicity = 0.7

// Decision is the moderation outcome for one submission
type Decision struct {
	IsApproved      bool             `json:"is_approved"`
	Sentiment       sentiment.Result `json:"sentiment"`
	Fraud           fraud.Signal     `json:"fraud"`
	ModerationScore float64          `json:"moderation_score"`
}

// Analyzer is the sentiment half of a decision
type Analyzer interface {
	Analyze(text string) sentiment.Result
}

// RiskDetector is the fraud half of a decision
type RiskDetector interface {
	Detect(userID string, action fraud.Action, p fraud.Payload, h fraud.History) fraud.Signal
	DetectAt(userID string, action fraud.Action, p fraud.Payload, h fraud.History, at time.Time) fraud.Signal
}

// Aggregator runs both analyses and decides. It holds no mutable state
type Aggregator struct {
	sent Analyzer
	det  RiskDetector
	log  zerolog.Logger
}

// New wires an Aggregator. nil collaborators fall back to the package defaults
func New(a Analyzer, d RiskDetector, log zerolog.Logger) *Aggregator {
	if a == nil {
		a = sentiment.New(sentiment.WithLogger(log))
	}
	if d == nil {
		d = fraud.New(fraud.WithLogger(log))
	}
	return &Aggregator{sent: a, det: d, log: log}
}

// Moderate analyzes content posted by userID. Both analyses run concurrently and
// neither can fail, so the only error path is a canceled ctx, in which case the
// decision is computed from whatever finished and defaults for the rest
func (m *Aggregator) Moderate(ctx context.Context, content, userID string, h fraud.History) Decision {
	return m.ModerateAt(ctx, content, userID, h, time.Time{})
}

// ModerateAt is Moderate for content posted at at, e.g. a stored post judged
// later. A zero at uses the detector's clock
func (m *Aggregator) ModerateAt(ctx context.Context, content, userID string, h fraud.History, at time.Time) Decision {
	res := sentiment.Default()
	sig := fraud.Failed()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		res = safe(m.log, "sentiment", sentiment.Default(), func() sentiment.Result {
			return m.sent.Analyze(content)
		})
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		sig = safe(m.log, "fraud", fraud.Failed(), func() fraud.Signal {
			return m.det.DetectAt(userID, fraud.ActionCreatePost, fraud.PostPayload{Content: content}, h, at)
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		m.log.Warn().Err(err).Str("user_id", userID).Msg("moderation interrupted, using defaults for unfinished checks")
	}
	return Decide(res, sig)
}

// Decide derives the decision from finished analyses
func Decide(res sentiment.Result, sig fraud.Signal) Decision {
	return Decision{
		IsApproved:      res.Toxicity < maxToxicity && !sig.IsFraudulent,
		Sentiment:       res,
		Fraud:           sig,
		ModerationScore: unit.Clamp((unit.Clamp(res.Toxicity) + unit.Clamp(sig.RiskScore)) / 2),
	}
}

// safe shields the aggregator from collaborators that panic
func safe[T any](log zerolog.Logger, part string, def T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Err(fmt.Errorf("moderation: %s panic: %v", part, r)).Msg("analysis panicked, using default")
			out = def
		}
	}()
	return fn()
}
