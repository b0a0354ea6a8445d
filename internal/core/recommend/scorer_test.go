package recommend

import (
	"encoding/json"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScore_HashtagMediaScenario(t *testing.T) {
	s := New(WithClock(fixedClock))
	text := "#travel " + strings.Repeat("x", 192)
	if len([]rune(text)) != 200 {
		t.Fatalf("fixture length %d", len([]rune(text)))
	}
	item := Item{
		ID:        "p1",
		AuthorID:  "stranger",
		Text:      text,
		HasMedia:  true,
		CreatedAt: fixedNow.Add(-30 * time.Minute),
	}
	p := Profile{
		UserID:      "u1",
		Interests:   NewInterests("cooking", "chess"),
		Preferences: Preferences{Hashtags: map[string]float64{"travel": 0.8}, Authors: map[string]float64{"friend": 0.9}},
	}

	got := s.Score(item, p)
	if !near(got.Signals.Similarity, 0) || !near(got.Signals.Author, 0) {
		t.Fatalf("signals=%+v", got.Signals)
	}
	if !near(got.Signals.Hashtag, 0.8) || !near(got.Signals.Engagement, 0.9) || !near(got.Signals.Recency, 0.3) {
		t.Fatalf("signals=%+v", got.Signals)
	}
	if !near(got.Score, 0.34) {
		t.Fatalf("score=%v want 0.34", got.Score)
	}
	if !near(got.Confidence, 0.67) {
		t.Fatalf("confidence=%v", got.Confidence)
	}
	want := []string{ReasonHashtags, ReasonEngagement}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Fatalf("reasons=%v want %v", got.Reasons, want)
	}
}

func TestScore_SimilarityAndAuthor(t *testing.T) {
	s := New(WithClock(fixedClock))
	p := Profile{
		Interests:   NewInterests("golang", "concurrency"),
		Preferences: Preferences{Authors: map[string]float64{"rob": 0.9}},
	}
	got := s.Score(Item{ID: "a", AuthorID: "rob", Text: "Golang concurrency!", CreatedAt: fixedNow.Add(-100 * time.Hour)}, p)
	if !near(got.Signals.Similarity, 1) || !near(got.Signals.Author, 0.9) {
		t.Fatalf("signals=%+v", got.Signals)
	}
	if !reflect.DeepEqual(got.Reasons, []string{ReasonSimilar, ReasonAuthor}) {
		t.Fatalf("reasons=%v", got.Reasons)
	}
	// stop words and short tokens never count toward the denominator
	got = s.Score(Item{ID: "b", Text: "the and for golang cat", CreatedAt: fixedNow}, p)
	if !near(got.Signals.Similarity, 1) {
		t.Fatalf("similarity=%v", got.Signals.Similarity)
	}
}

func TestScore_RawPreferenceWeights(t *testing.T) {
	s := New(WithClock(fixedClock))
	old := fixedNow.Add(-100 * time.Hour)
	cases := []struct {
		name      string
		weight    float64
		score     float64
		signal    float64
		hasReason bool
	}{
		// engagement 0.5*0.15 plus author weight*0.2
		{"above one", 1.5, 0.375, 1, true},
		{"one", 1, 0.275, 1, true},
		{"negative", -0.5, 0, 0, false},
		{"slightly negative", -0.2, 0.035, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := Profile{Preferences: Preferences{Authors: map[string]float64{"rob": c.weight}}}
			got := s.Score(Item{ID: "a", AuthorID: "rob", CreatedAt: old}, p)
			if !near(got.Score, c.score) || !near(got.Signals.Author, c.signal) {
				t.Fatalf("score=%v author=%v", got.Score, got.Signals.Author)
			}
			if has := len(got.Reasons) == 1 && got.Reasons[0] == ReasonAuthor; has != c.hasReason {
				t.Fatalf("reasons=%v", got.Reasons)
			}
		})
	}

	// heavier weights above one still order items
	p := Profile{Preferences: Preferences{Authors: map[string]float64{"big": 3, "mid": 1.5}}}
	ranked := s.Rank([]Item{
		{ID: "a", AuthorID: "mid", CreatedAt: old},
		{ID: "b", AuthorID: "big", CreatedAt: old},
	}, p, 0)
	if ranked[0].PostID != "b" {
		t.Fatalf("order=%s,%s", ranked[0].PostID, ranked[1].PostID)
	}
}

func TestScore_HashtagWeightsAveragedRaw(t *testing.T) {
	s := New(WithClock(fixedClock))
	p := Profile{Preferences: Preferences{Hashtags: map[string]float64{"go": 2, "rust": -1}}}
	got := s.Score(Item{ID: "a", Text: "#go #rust", CreatedAt: fixedNow.Add(-100 * time.Hour)}, p)
	// hashtag mean 0.5, engagement 0.6 with tags
	if !near(got.Score, 0.5*0.2+0.6*0.15) || !near(got.Signals.Hashtag, 0.5) {
		t.Fatalf("score=%v hashtag=%v", got.Score, got.Signals.Hashtag)
	}
}

func TestScore_EmptyProfileAndText(t *testing.T) {
	s := New(WithClock(fixedClock))
	got := s.Score(Item{ID: "e"}, Profile{})
	if got.Signals.Similarity != 0 || got.Signals.Hashtag != 0 || got.Signals.Author != 0 {
		t.Fatalf("signals=%+v", got.Signals)
	}
	if !near(got.Signals.Engagement, 0.5) || got.Signals.Recency != 0 {
		t.Fatalf("signals=%+v", got.Signals)
	}
	if got.Reasons == nil {
		t.Fatalf("reasons should be empty, not nil")
	}
}

func TestEngagementBounds(t *testing.T) {
	s := New(WithClock(fixedClock))
	evening := time.Date(2026, 1, 9, 19, 0, 0, 0, time.UTC)
	item := Item{Text: strings.Repeat("a", 150) + " #x", HasMedia: true, CreatedAt: evening}
	if got := s.engagement(item, 1); !near(got, 1) {
		t.Fatalf("engagement=%v want 1", got)
	}
	// six tags is over the bonus cap
	if got := s.engagement(Item{CreatedAt: fixedNow}, 6); !near(got, 0.5) {
		t.Fatalf("engagement=%v", got)
	}
	// exactly 100 and 500 runes fall outside the open interval
	for _, n := range []int{100, 500} {
		if got := s.engagement(Item{Text: strings.Repeat("é", n), CreatedAt: fixedNow}, 0); !near(got, 0.5) {
			t.Fatalf("len %d engagement=%v", n, got)
		}
	}
}

func TestRecencyBuckets(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want float64
	}{
		{-time.Hour, 0.3},
		{59 * time.Minute, 0.3},
		{time.Hour, 0.2},
		{5 * time.Hour, 0.2},
		{6 * time.Hour, 0.1},
		{23 * time.Hour, 0.1},
		{24 * time.Hour, 0.05},
		{71 * time.Hour, 0.05},
		{72 * time.Hour, 0},
	}
	for _, c := range cases {
		if got := recency(c.age); got != c.want {
			t.Fatalf("recency(%v)=%v want %v", c.age, got, c.want)
		}
	}
}

func TestRank_OrderLimitAndTies(t *testing.T) {
	s := New(WithClock(fixedClock), WithWorkers(3))
	p := Profile{Preferences: Preferences{Authors: map[string]float64{"fav": 1}}}
	old := fixedNow.Add(-200 * time.Hour)
	items := []Item{
		{ID: "c", CreatedAt: old},
		{ID: "a", CreatedAt: old},
		{ID: "top", AuthorID: "fav", CreatedAt: old},
		{ID: "b", CreatedAt: old},
	}

	all := s.Rank(items, p, 0)
	var ids []string
	for _, r := range all {
		ids = append(ids, r.PostID)
	}
	if !reflect.DeepEqual(ids, []string{"top", "a", "b", "c"}) {
		t.Fatalf("order=%v", ids)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Score > all[i-1].Score {
			t.Fatalf("not sorted at %d", i)
		}
	}

	if got := s.Rank(items, p, 2); len(got) != 2 || got[0].PostID != "top" {
		t.Fatalf("limit 2: %+v", got)
	}
	if got := s.Rank(items, p, 10); len(got) != 4 {
		t.Fatalf("limit above len: %d", len(got))
	}
	if got := s.Rank(items, p, -1); len(got) != 4 {
		t.Fatalf("negative limit: %d", len(got))
	}
	if got := s.Rank(nil, p, 5); len(got) != 0 {
		t.Fatalf("empty input: %d", len(got))
	}
}

func TestRank_Deterministic(t *testing.T) {
	s := New(WithClock(fixedClock), WithWorkers(8))
	items, p := randomFixture(rand.New(rand.NewSource(7)), 64)
	first := s.Rank(items, p, 20)
	for range 5 {
		if again := s.Rank(items, p, 20); !reflect.DeepEqual(first, again) {
			t.Fatalf("rank not deterministic")
		}
	}
}

func TestScore_BoundsFuzz(t *testing.T) {
	s := New(WithClock(fixedClock))
	rng := rand.New(rand.NewSource(42))
	for range 20 {
		items, p := randomFixture(rng, 50)
		for _, it := range items {
			got := s.Score(it, p)
			for name, v := range map[string]float64{
				"score":      got.Score,
				"confidence": got.Confidence,
				"similarity": got.Signals.Similarity,
				"author":     got.Signals.Author,
				"hashtag":    got.Signals.Hashtag,
				"engagement": got.Signals.Engagement,
				"recency":    got.Signals.Recency,
			} {
				if math.IsNaN(v) || v < 0 || v > 1 {
					t.Fatalf("%s out of range: %v for %+v", name, v, it)
				}
			}
		}
	}
}

func TestInterestsJSON(t *testing.T) {
	p := Profile{UserID: "u", Interests: NewInterests("Zed", "alpha", " ")}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"interests":["alpha","zed"]`) {
		t.Fatalf("json=%s", b)
	}
	var back Profile
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Interests.Has("zed") || len(back.Interests) != 2 {
		t.Fatalf("interests=%v", back.Interests.List())
	}
}

var words = []string{"golang", "travel", "the", "food", "sunset", "#travel", "#food", "#x", "!!!", "amazing", "", "https://bit.ly/x"}

func randomFixture(rng *rand.Rand, n int) ([]Item, Profile) {
	p := Profile{
		Interests: NewInterests("golang", "sunset"),
		Preferences: Preferences{
			Hashtags: map[string]float64{"travel": rng.Float64() * 2, "food": -rng.Float64()},
			Authors:  map[string]float64{"a1": rng.Float64() * 3, "a2": math.Inf(1)},
		},
	}
	items := make([]Item, n)
	for i := range items {
		var sb strings.Builder
		for range rng.Intn(120) {
			sb.WriteString(words[rng.Intn(len(words))])
			sb.WriteByte(' ')
		}
		items[i] = Item{
			ID:        string(rune('a'+i%26)) + strings.Repeat("z", i/26),
			AuthorID:  []string{"a1", "a2", "a3"}[rng.Intn(3)],
			Text:      sb.String(),
			HasMedia:  rng.Intn(2) == 0,
			CreatedAt: fixedNow.Add(time.Duration(rng.Int63n(int64(200*time.Hour))) - 10*time.Hour),
		}
	}
	return items, p
}
