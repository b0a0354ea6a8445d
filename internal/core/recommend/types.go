// Package recommend ranks candidate posts for a viewer from a behavior profile.
// Scoring is a fixed weighted sum of five bounded signals; nothing here does I/O
package recommend

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"trustrank/internal/core/unit"
)

// Signal weights; they sum to 1 so the weighted total stays in [0,1]
const (
	WeightSimilarity = 0.30
	WeightAuthor     = 0.20
	WeightHashtag    = 0.20
	WeightEngagement = 0.15
	WeightRecency    = 0.15
)

// Reason labels attached to a Score
const (
	ReasonSimilar    = "similar to interests"
	ReasonAuthor     = "from followed author"
	ReasonHashtags   = "liked hashtags"
	ReasonEngagement = "high engagement potential"
	ReasonRecent     = "recent content"
)

// ActivityPattern is the viewer's activity histogram
type ActivityPattern struct {
	Hours            [24]int `json:"hours"`
	Days             [7]int  `json:"days"`
	PostingFrequency float64 `json:"posting_frequency"`
}

// Preferences maps preference keys to affinities in [0,1]
type Preferences struct {
	Categories map[string]float64 `json:"categories,omitempty"`
	Hashtags   map[string]float64 `json:"hashtags,omitempty"`
	Authors    map[string]float64 `json:"authors,omitempty"`
}

// Interests is a set of lowercase keywords. It travels as a sorted JSON array
type Interests map[string]struct{}

// NewInterests builds an interest set, lowercasing entries
func NewInterests(words ...string) Interests {
	m := make(Interests, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			m[w] = struct{}{}
		}
	}
	return m
}

// Has reports membership
func (in Interests) Has(w string) bool {
	_, ok := in[w]
	return ok
}

// List returns the interests sorted
func (in Interests) List() []string {
	out := make([]string, 0, len(in))
	for w := range in {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON implements json.Marshaler
func (in Interests) MarshalJSON() ([]byte, error) { return json.Marshal(in.List()) }

// UnmarshalJSON implements json.Unmarshaler
func (in *Interests) UnmarshalJSON(b []byte) error {
	var words []string
	if err := json.Unmarshal(b, &words); err != nil {
		return err
	}
	*in = NewInterests(words...)
	return nil
}

// Profile is a read-only snapshot of a user's behavior profile.
// Hashtag preference keys carry no '#'
type Profile struct {
	UserID          string          `json:"user_id"`
	Interests       Interests       `json:"interests"`
	ActivityPattern ActivityPattern `json:"activity_pattern"`
	Preferences     Preferences     `json:"preferences"`
}

// Item is a candidate post
type Item struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	HasMedia  bool      `json:"has_media"`
	CreatedAt time.Time `json:"created_at"`
}

// Signals are the sub-scores behind a Score. Author and hashtag affinities
// carry profile weights as stored, so only Bounded copies leave the scorer
type Signals struct {
	Similarity float64 `json:"similarity"`
	Author     float64 `json:"author"`
	Hashtag    float64 `json:"hashtag"`
	Engagement float64 `json:"engagement"`
	Recency    float64 `json:"recency"`
}

// Bounded returns s with every sub-score clamped to [0,1]
func (s Signals) Bounded() Signals {
	return Signals{
		Similarity: unit.Clamp(s.Similarity),
		Author:     unit.Clamp(s.Author),
		Hashtag:    unit.Clamp(s.Hashtag),
		Engagement: unit.Clamp(s.Engagement),
		Recency:    unit.Clamp(s.Recency),
	}
}

// Weighted returns the clamped weighted sum of s. Only the sum is clamped
func (s Signals) Weighted() float64 {
	return unit.Clamp(s.Similarity*WeightSimilarity +
		s.Author*WeightAuthor +
		s.Hashtag*WeightHashtag +
		s.Engagement*WeightEngagement +
		s.Recency*WeightRecency)
}

// Score is the recommendation result for one item
type Score struct {
	PostID     string   `json:"post_id"`
	Score      float64  `json:"score"`
	Reasons    []string `json:"reasons"`
	Confidence float64  `json:"confidence"`
	Signals    Signals  `json:"signals"`
}
