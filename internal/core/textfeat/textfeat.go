// Package textfeat extracts the lexical features the scorers share:
// whitespace words, keywords, hashtags and outbound links
package textfeat

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinKeywordLen is the shortest token (in runes) kept as a keyword
const MinKeywordLen = 4

// tag bodies are letters, marks, digits and underscores in any script
var (
	hashtagRe = regexp.MustCompile(`#([\p{L}\p{M}\p{N}_]+)`)
	tagBodyRe = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_]+`)
)

// Words lowercases text and splits it on whitespace. Punctuation stays attached
func Words(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// StripPunct removes every Unicode punctuation rune from s
func StripPunct(s string) string {
	if strings.IndexFunc(s, unicode.IsPunct) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
}

// Keywords lowercases text, strips punctuation, splits on whitespace and drops
// short tokens and stop words. Duplicates are kept so repeated terms weigh more
func Keywords(text string, stop func(string) bool) []string {
	fields := strings.Fields(StripPunct(strings.ToLower(text)))
	out := fields[:0]
	for _, w := range fields {
		if utf8.RuneCountInString(w) < MinKeywordLen {
			continue
		}
		if stop != nil && stop(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// DistinctKeywords returns punctuation-stripped lowercase tokens of at least
// MinKeywordLen runes, deduplicated in first-seen order and capped at limit (limit <= 0 means no cap)
func DistinctKeywords(text string, limit int) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, w := range Words(text) {
		w = StripPunct(w)
		if utf8.RuneCountInString(w) < MinKeywordLen {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Hashtags returns the lowercased tag names (without '#') in order of appearance
func Hashtags(text string) []string {
	m := hashtagRe.FindAllStringSubmatch(text, -1)
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for _, g := range m {
		out = append(out, strings.ToLower(g[1]))
	}
	return out
}

// TagKey canonicalizes a hashtag preference key to the form Hashtags emits:
// the leading tag body after an optional '#', lowercased. Keys without one give ""
func TagKey(tag string) string {
	body := tagBodyRe.FindString(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	return strings.ToLower(body)
}

// LexicalDiversity is unique/total over whitespace words, and ok is false when text has no words
func LexicalDiversity(text string) (ratio float64, ok bool) {
	words := Words(text)
	if len(words) == 0 {
		return 0, false
	}
	uniq := make(map[string]struct{}, len(words))
	for _, w := range words {
		uniq[w] = struct{}{}
	}
	return float64(len(uniq)) / float64(len(words)), true
}
