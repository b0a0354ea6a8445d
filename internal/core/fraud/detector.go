package fraud

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"trustrank/internal/core/lexicon"
	"trustrank/internal/core/normalize"
	"trustrank/internal/core/phrase"
	"trustrank/internal/core/textfeat"
	"trustrank/internal/core/unit"

	"github.com/rs/zerolog"
)

// Heuristic weights and limits
const (
	rapidPostingScore  = 0.3
	rapidPostingMin    = 5 // more than this many recent posts
	spamScore          = 0.4
	suspiciousLinkEach = 0.5

	unusualTimeScore = 0.2
	earliestHour     = 6
	latestHour       = 23
	excessiveScore   = 0.3
	excessiveMin     = 20

	repetitiveScore    = 0.4
	minDiversity       = 0.3
	automatedScore     = 0.3
	timingMinActions   = 5
	timingMaxVariance  = 1000.0 // squared milliseconds
	fraudulentMinScore = 0.7
)

// Detector is immutable and safe for concurrent use
type Detector struct {
	spam    *phrase.Matcher
	domains []string
	now     func() time.Time
	loc     *time.Location
	log     zerolog.Logger
	onFail  func(error)
}

// Option configures a Detector
type Option func(*Detector)

// WithLexicon swaps the spam phrase and domain tables
func WithLexicon(l *lexicon.Lexicon) Option {
	return func(d *Detector) {
		if l != nil {
			d.spam = phrase.New(l.SpamPhrases)
			d.domains = l.SuspiciousDomains
		}
	}
}

// WithClock injects the time source for the time-of-day check
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLocation sets the zone the activity hour is read in (default UTC)
func WithLocation(loc *time.Location) Option {
	return func(d *Detector) {
		if loc != nil {
			d.loc = loc
		}
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(l zerolog.Logger) Option {
	return func(d *Detector) { d.log = l }
}

// WithFailureHook is called whenever Detect falls back to Failed
func WithFailureHook(fn func(error)) Option {
	return func(d *Detector) { d.onFail = fn }
}

// New constructs a Detector over the embedded lexicon
func New(opts ...Option) *Detector {
	d := &Detector{now: time.Now, loc: time.UTC, log: zerolog.Nop()}
	for _, o := range opts {
		o(d)
	}
	if d.spam == nil {
		WithLexicon(lexicon.MustDefault())(d)
	}
	return d
}

// tally accumulates score and reasons across checks
type tally struct {
	score   float64
	reasons []string
}

func (t *tally) add(score float64, reason string) {
	t.score += score
	t.reasons = append(t.reasons, reason)
}

// Detect never fails: internal errors and panics degrade to Failed and are logged
func (d *Detector) Detect(userID string, action Action, p Payload, h History) Signal {
	return d.DetectAt(userID, action, p, h, d.now())
}

// DetectAt is Detect for an action taken at at, which the time-of-day check reads
// instead of the clock. A zero at falls back to the clock
func (d *Detector) DetectAt(userID string, action Action, p Payload, h History, at time.Time) (sig Signal) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(userID, fmt.Errorf("fraud: panic: %v", r))
			sig = Failed()
		}
	}()
	if at.IsZero() {
		at = d.now()
	}
	sig, err := d.detect(action, p, h, at)
	if err != nil {
		d.fail(userID, err)
		return Failed()
	}
	return sig
}

func (d *Detector) fail(userID string, err error) {
	d.log.Error().Err(err).Str("user_id", userID).Msg("fraud analysis failed, returning zero risk")
	if d.onFail != nil {
		d.onFail(err)
	}
}

var errNoMatcher = errors.New("fraud: spam matcher not built")

func (d *Detector) detect(action Action, p Payload, h History, now time.Time) (Signal, error) {
	if d.spam == nil {
		return Signal{}, errNoMatcher
	}
	var text string
	var links []string
	if p != nil {
		text, links = p.Text(), p.LinkList()
	}

	t := &tally{reasons: []string{}}
	d.patterns(t, action, text, links, h)
	d.activity(t, h, now)
	botBehavior(t, text, h)

	risk := unit.Clamp(t.score)
	return Signal{
		IsFraudulent: risk > fraudulentMinScore,
		RiskScore:    risk,
		Reasons:      t.reasons,
		Confidence:   unit.Confidence(risk),
	}, nil
}

// patterns scores rapid posting, spam phrases and suspicious links
func (d *Detector) patterns(t *tally, action Action, text string, links []string, h History) {
	if action == ActionCreatePost && len(h.RecentPosts) > rapidPostingMin {
		t.add(rapidPostingScore, ReasonRapidPosting)
	}
	if text != "" && d.spam.Contains(normalize.Fold(text)) {
		t.add(spamScore, ReasonSpamContent)
	}

	flagged := 0
	for _, l := range textfeat.Links(text, links) {
		if d.suspicious(l.Host) {
			flagged++
		}
	}
	if flagged > 0 {
		t.score += suspiciousLinkEach * float64(flagged)
		t.reasons = append(t.reasons, ReasonSuspiciousLinks)
	}
}

func (d *Detector) suspicious(host string) bool {
	for _, dom := range d.domains {
		if textfeat.HostMatches(host, dom) {
			return true
		}
	}
	return false
}

// activity scores odd hours and raw action volume
func (d *Detector) activity(t *tally, h History, now time.Time) {
	if hr := now.In(d.loc).Hour(); hr < earliestHour || hr > latestHour {
		t.add(unusualTimeScore, ReasonUnusualTime)
	}
	if len(h.RecentActions) > excessiveMin {
		t.add(excessiveScore, ReasonExcessive)
	}
}

// botBehavior scores repetitive wording and metronomic action timing
func botBehavior(t *tally, text string, h History) {
	if div, ok := textfeat.LexicalDiversity(text); ok && div < minDiversity {
		t.add(repetitiveScore, ReasonRepetitive)
	}
	if len(h.RecentActions) > timingMinActions {
		if v, ok := IntervalVariance(h.RecentActions); ok && v < timingMaxVariance {
			t.add(automatedScore, ReasonAutomatedTiming)
		}
	}
}

// IntervalVariance returns the population variance, in squared milliseconds,
// of the gaps between consecutive actions ordered by time. ok is false with fewer than two actions
func IntervalVariance(actions []RecentAction) (float64, bool) {
	if len(actions) < 2 {
		return 0, false
	}
	ts := make([]int64, len(actions))
	for i, a := range actions {
		ts[i] = a.At.UnixMilli()
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })

	deltas := make([]float64, len(ts)-1)
	mean := 0.0
	for i := 1; i < len(ts); i++ {
		deltas[i-1] = float64(ts[i] - ts[i-1])
		mean += deltas[i-1]
	}
	mean /= float64(len(deltas))

	v := 0.0
	for _, x := range deltas {
		v += (x - mean) * (x - mean)
	}
	return v / float64(len(deltas)), true
}
