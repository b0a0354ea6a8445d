// Package engine builds the scoring and moderation engines shared by the API,
// the sweep runner and the offline CLI
package engine

import (
	"fmt"
	"time"

	"trustrank/internal/core/fraud"
	"trustrank/internal/core/lexicon"
	"trustrank/internal/core/moderation"
	"trustrank/internal/core/recommend"
	"trustrank/internal/core/sentiment"
	"trustrank/internal/platform/config"
	"trustrank/internal/platform/logger"
	"trustrank/internal/platform/metrics"
)

// Options configures the engines
type Options struct {
	RankWorkers int
	FeedZone    string // IANA zone for the evening engagement window
	FraudZone   string // IANA zone for the unusual-hours check
	Now         func() time.Time
}

// FromConfig reads CORE_FEED_* and CORE_MODERATION_* engine settings
func FromConfig(cfg config.Conf) Options {
	ff := cfg.Prefix("CORE_FEED_")
	mf := cfg.Prefix("CORE_MODERATION_")
	return Options{
		RankWorkers: ff.MayInt("RANK_WORKERS", 0),
		FeedZone:    ff.MayString("TIMEZONE", "UTC"),
		FraudZone:   mf.MayString("TIMEZONE", "UTC"),
	}
}

// Engine bundles the immutable engines; all fields are safe for concurrent use
type Engine struct {
	Lexicon   *lexicon.Lexicon
	Scorer    *recommend.Scorer
	Sentiment *sentiment.Classifier
	Fraud     *fraud.Detector
	Moderator *moderation.Aggregator
}

// New compiles the lexicon and wires each engine with a named logger and
// a fail-open counter
func New(opts Options) (*Engine, error) {
	lex, err := lexicon.Default()
	if err != nil {
		return nil, err
	}
	feedLoc, err := zone(opts.FeedZone)
	if err != nil {
		return nil, err
	}
	fraudLoc, err := zone(opts.FraudZone)
	if err != nil {
		return nil, err
	}

	sc := recommend.New(
		recommend.WithClock(opts.Now),
		recommend.WithLocation(feedLoc),
		recommend.WithStopwords(lex.Stopwords.Has),
		recommend.WithWorkers(opts.RankWorkers),
		recommend.WithLogger(*logger.Named("recommend")),
		recommend.WithFailureHook(metrics.FailOpenHook("recommend")),
	)
	sent := sentiment.New(
		sentiment.WithLexicon(lex),
		sentiment.WithLogger(*logger.Named("sentiment")),
		sentiment.WithFailureHook(metrics.FailOpenHook("sentiment")),
	)
	det := fraud.New(
		fraud.WithLexicon(lex),
		fraud.WithClock(opts.Now),
		fraud.WithLocation(fraudLoc),
		fraud.WithLogger(*logger.Named("fraud")),
		fraud.WithFailureHook(metrics.FailOpenHook("fraud")),
	)
	return &Engine{
		Lexicon:   lex,
		Scorer:    sc,
		Sentiment: sent,
		Fraud:     det,
		Moderator: moderation.New(sent, det, *logger.Named("moderation")),
	}, nil
}

// MustNew is New for process startup
func MustNew(opts Options) *Engine {
	e, err := New(opts)
	if err != nil {
		panic(err)
	}
	return e
}

func zone(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("engine: timezone %q: %w", name, err)
	}
	return loc, nil
}
