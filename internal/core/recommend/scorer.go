package recommend

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"trustrank/internal/core/lexicon"
	"trustrank/internal/core/textfeat"
	"trustrank/internal/core/unit"

	"github.com/rs/zerolog"
)

// Reason thresholds on the raw sub-scores
const (
	similarReasonMin    = 0.7
	authorReasonMin     = 0.5
	hashtagReasonMin    = 0.6
	engagementReasonMin = 0.8
	recencyReasonMin    = 0.5
)

// Scorer computes recommendation scores. It holds no mutable state after New
type Scorer struct {
	now     func() time.Time
	loc     *time.Location
	stop    func(string) bool
	workers int
	log     zerolog.Logger
	onFail  func(error)
}

// Option configures a Scorer
type Option func(*Scorer)

// WithClock injects the time source used for recency
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone used for the evening engagement window (default UTC)
func WithLocation(loc *time.Location) Option {
	return func(s *Scorer) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithStopwords overrides the stop-word predicate
func WithStopwords(stop func(string) bool) Option {
	return func(s *Scorer) { s.stop = stop }
}

// WithWorkers bounds Rank's fan-out (default GOMAXPROCS)
func WithWorkers(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scorer) { s.log = l }
}

// WithFailureHook is called whenever a score falls back to its default
func WithFailureHook(fn func(error)) Option {
	return func(s *Scorer) { s.onFail = fn }
}

// New constructs a Scorer bound to the embedded stop-word list
func New(opts ...Option) *Scorer {
	s := &Scorer{
		now:     time.Now,
		loc:     time.UTC,
		stop:    lexicon.MustDefault().Stopwords.Has,
		workers: runtime.GOMAXPROCS(0),
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Score rates item for profile
func (s *Scorer) Score(item Item, p Profile) Score {
	return s.scoreAt(item, p, s.now())
}

func (s *Scorer) scoreAt(item Item, p Profile, now time.Time) (out Score) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("recommend: score %s: %v", item.ID, r)
			s.log.Error().Err(err).Str("post_id", item.ID).Msg("score failed, using default")
			if s.onFail != nil {
				s.onFail(err)
			}
			out = Score{PostID: item.ID, Reasons: []string{}, Confidence: unit.Confidence(0)}
		}
	}()

	tags := textfeat.Hashtags(item.Text)
	sig := Signals{
		Similarity: s.similarity(item.Text, p.Interests),
		Author:     authorAffinity(item.AuthorID, p.Preferences.Authors),
		Hashtag:    hashtagAffinity(tags, p.Preferences.Hashtags),
		Engagement: s.engagement(item, len(tags)),
		Recency:    recency(now.Sub(item.CreatedAt)),
	}
	score := sig.Weighted()
	shown := sig.Bounded()
	return Score{
		PostID:     item.ID,
		Score:      score,
		Reasons:    reasons(shown),
		Confidence: unit.Confidence(score),
		Signals:    shown,
	}
}

// Rank scores items concurrently and returns them best first, ties by ID ascending.
// limit <= 0 returns every item
func (s *Scorer) Rank(items []Item, p Profile, limit int) []Score {
	out := make([]Score, len(items))
	if len(items) == 0 {
		return out
	}
	now := s.now()

	sem := make(chan struct{}, s.workers)
	wg := sync.WaitGroup{}
	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			out[i] = s.scoreAt(items[i], p, now)
		}(i)
	}
	wg.Wait()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PostID < out[j].PostID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (s *Scorer) similarity(text string, interests Interests) float64 {
	kws := textfeat.Keywords(text, s.stop)
	if len(kws) == 0 {
		return 0
	}
	matches := 0
	for _, k := range kws {
		if interests.Has(k) {
			matches++
		}
	}
	return unit.Ratio(matches, len(kws))
}

// authorAffinity is the raw stored weight, 0 when absent
func authorAffinity(authorID string, prefs map[string]float64) float64 {
	return prefs[authorID]
}

func hashtagAffinity(tags []string, prefs map[string]float64) float64 {
	if len(tags) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range tags {
		sum += prefs[t]
	}
	return sum / float64(len(tags))
}

func (s *Scorer) engagement(item Item, tagCount int) float64 {
	e := 0.5
	if n := utf8.RuneCountInString(item.Text); n > 100 && n < 500 {
		e += 0.1
	}
	if tagCount > 0 && tagCount <= 5 {
		e += 0.1
	}
	if item.HasMedia {
		e += 0.2
	}
	if h := item.CreatedAt.In(s.loc).Hour(); h >= 18 && h <= 22 {
		e += 0.1
	}
	return unit.Clamp(e)
}

func recency(age time.Duration) float64 {
	switch h := age.Hours(); {
	case h < 1:
		return 0.3
	case h < 6:
		return 0.2
	case h < 24:
		return 0.1
	case h < 72:
		return 0.05
	}
	return 0
}

func reasons(sig Signals) []string {
	out := []string{}
	if sig.Similarity > similarReasonMin {
		out = append(out, ReasonSimilar)
	}
	if sig.Author > authorReasonMin {
		out = append(out, ReasonAuthor)
	}
	if sig.Hashtag > hashtagReasonMin {
		out = append(out, ReasonHashtags)
	}
	if sig.Engagement > engagementReasonMin {
		out = append(out, ReasonEngagement)
	}
	if sig.Recency > recencyReasonMin {
		out = append(out, ReasonRecent)
	}
	return out
}
