// Package sentiment classifies short texts as positive, negative or neutral and
// estimates toxicity, using the fixed word lists from the lexicon package
package sentiment

import (
	"errors"
	"fmt"

	"trustrank/internal/core/lexicon"
	"trustrank/internal/core/textfeat"
	"trustrank/internal/core/unit"

	"github.com/rs/zerolog"
)

// Label is a sentiment class
type Label string

// Sentiment classes
const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

const (
	// MaxKeywords caps Result.Keywords
	MaxKeywords = 10
	// minWinningRatio is the share of words a class needs before it beats neutral
	minWinningRatio   = 0.1
	neutralConfidence = 0.5
)

// Result is the outcome of Analyze
type Result struct {
	Sentiment  Label    `json:"sentiment"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
	Toxicity   float64  `json:"toxicity"`
}

// Default is the neutral result returned for empty input and on internal failure
func Default() Result {
	return Result{Sentiment: Neutral, Confidence: neutralConfidence, Keywords: []string{}, Toxicity: 0}
}

// Counts are the raw lexicon hits behind a Result
type Counts struct {
	Words    int `json:"words"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Toxic    int `json:"toxic"`
}

// Classifier is immutable and safe for concurrent use
type Classifier struct {
	lex    *lexicon.Lexicon
	log    zerolog.Logger
	onFail func(error)
}

// Option configures a Classifier
type Option func(*Classifier)

// WithLexicon swaps the word lists
func WithLexicon(l *lexicon.Lexicon) Option {
	return func(c *Classifier) {
		if l != nil {
			c.lex = l
		}
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Classifier) { c.log = l }
}

// WithFailureHook is called whenever Analyze falls back to Default
func WithFailureHook(fn func(error)) Option {
	return func(c *Classifier) { c.onFail = fn }
}

// New constructs a Classifier over the embedded lexicon
func New(opts ...Option) *Classifier {
	c := &Classifier{log: zerolog.Nop()}
	for _, o := range opts {
		o(c)
	}
	if c.lex == nil {
		c.lex = lexicon.MustDefault()
	}
	return c
}

// Analyze never fails: internal errors and panics degrade to Default and are logged
func (c *Classifier) Analyze(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			c.fail(fmt.Errorf("sentiment: panic: %v", r))
			res = Default()
		}
	}()
	res, err := c.analyze(text)
	if err != nil {
		c.fail(err)
		return Default()
	}
	return res
}

func (c *Classifier) fail(err error) {
	c.log.Error().Err(err).Msg("sentiment analysis failed, returning neutral")
	if c.onFail != nil {
		c.onFail(err)
	}
}

var errNoLexicon = errors.New("sentiment: lexicon not loaded")

func (c *Classifier) analyze(text string) (Result, error) {
	if c.lex == nil {
		return Result{}, errNoLexicon
	}
	words := textfeat.Words(text)
	n := c.count(words)
	if n.Words == 0 {
		return Default(), nil
	}

	pos := unit.Ratio(n.Positive, n.Words)
	neg := unit.Ratio(n.Negative, n.Words)

	res := Result{
		Sentiment:  Neutral,
		Confidence: neutralConfidence,
		Keywords:   textfeat.DistinctKeywords(text, MaxKeywords),
		Toxicity:   unit.Ratio(n.Toxic, n.Words),
	}
	switch {
	case pos > neg && pos > minWinningRatio:
		res.Sentiment, res.Confidence = Positive, pos
	case neg > pos && neg > minWinningRatio:
		res.Sentiment, res.Confidence = Negative, neg
	}
	return res, nil
}

// Count reports raw lexicon hits for text
func (c *Classifier) Count(text string) Counts {
	return c.count(textfeat.Words(text))
}

// count matches each whitespace word with surrounding punctuation removed,
// so "great," and "great" are the same hit
func (c *Classifier) count(words []string) Counts {
	n := Counts{Words: len(words)}
	for _, w := range words {
		w = textfeat.StripPunct(w)
		if w == "" {
			continue
		}
		if c.lex.Positive.Has(w) {
			n.Positive++
		}
		if c.lex.Negative.Has(w) {
			n.Negative++
		}
		if c.lex.Toxic.Has(w) {
			n.Toxic++
		}
	}
	return n
}
