// Package lexicon loads the fixed word lists used by the scoring engine from the embedded lexicon.json.
// Tables are compiled once and never mutated afterwards
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed lexicon.json
var embedded []byte

type rawLexicon struct {
	Version           int            `json:"version"`
	Meta              map[string]any `json:"meta"`
	Stopwords         []string       `json:"stopwords"`
	Positive          []string       `json:"positive"`
	Negative          []string       `json:"negative"`
	Toxic             []string       `json:"toxic"`
	SpamPhrases       []string       `json:"spam_phrases"`
	SuspiciousDomains []string       `json:"suspicious_domains"`
}

// Set is a read-only membership table of lowercased terms
type Set map[string]struct{}

// Has reports whether term is a member
func (s Set) Has(term string) bool {
	_, ok := s[term]
	return ok
}

// Sorted returns the members in lexical order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lexicon is the compiled, immutable word-list bundle
type Lexicon struct {
	Version int
	Meta    map[string]any

	Stopwords Set
	Positive  Set
	Negative  Set
	Toxic     Set

	// phrases and domains keep file order (deduped) since matchers index them
	SpamPhrases       []string
	SuspiciousDomains []string
}

// Stats summarizes table sizes for diagnostics
type Stats struct {
	Version           int `json:"version"`
	Stopwords         int `json:"stopwords"`
	Positive          int `json:"positive"`
	Negative          int `json:"negative"`
	Toxic             int `json:"toxic"`
	SpamPhrases       int `json:"spam_phrases"`
	SuspiciousDomains int `json:"suspicious_domains"`
}

// Stats returns the table sizes of l
func (l *Lexicon) Stats() Stats {
	return Stats{
		Version:           l.Version,
		Stopwords:         len(l.Stopwords),
		Positive:          len(l.Positive),
		Negative:          len(l.Negative),
		Toxic:             len(l.Toxic),
		SpamPhrases:       len(l.SpamPhrases),
		SuspiciousDomains: len(l.SuspiciousDomains),
	}
}

// Load parses and compiles the embedded lexicon.json
func Load() (*Lexicon, error) {
	return Parse(embedded)
}

// Parse compiles a lexicon document; exposed for tests and offline tooling
func Parse(b []byte) (*Lexicon, error) {
	var raw rawLexicon
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("lexicon: parse: %w", err)
	}
	if raw.Version != 1 {
		return nil, fmt.Errorf("lexicon: unsupported version %d (want 1)", raw.Version)
	}

	l := &Lexicon{
		Version:           raw.Version,
		Meta:              raw.Meta,
		Stopwords:         toSet(raw.Stopwords),
		Positive:          toSet(raw.Positive),
		Negative:          toSet(raw.Negative),
		Toxic:             toSet(raw.Toxic),
		SpamPhrases:       cleanList(raw.SpamPhrases),
		SuspiciousDomains: cleanList(raw.SuspiciousDomains),
	}
	if len(l.Positive) == 0 || len(l.Negative) == 0 {
		return nil, fmt.Errorf("lexicon: positive and negative lists must be non-empty")
	}
	return l, nil
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the process-wide compiled embedded lexicon
func Default() (*Lexicon, error) {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = Load()
	})
	return defaultLex, defaultErr
}

// MustDefault is Default that panics on a broken embed
func MustDefault() *Lexicon {
	l, err := Default()
	if err != nil {
		panic(err)
	}
	return l
}

func toSet(in []string) Set {
	s := make(Set, len(in))
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
