// Package service loads behavior profiles behind a bounded TTL cache
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"trustrank/internal/core/recommend"
	"trustrank/internal/core/textfeat"
	"trustrank/internal/modkit/repokit"
	perr "trustrank/internal/platform/errors"
	"trustrank/internal/services/profiles/domain"
	"trustrank/internal/services/profiles/repo"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Config for the profiles service
type Config struct {
	CacheSize int           // 0 disables caching
	CacheTTL  time.Duration // defaults to 5m
}

// Svc implements domain.ReaderPort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	cache  *expirable.LRU[string, recommend.Profile]
}

var _ domain.ReaderPort = (*Svc)(nil)

// New constructs the profiles service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("profiles.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("profiles.Service requires a non nil Repo binder")
	}
	s := &Svc{db: db, binder: binder}
	if cfg.CacheSize > 0 {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		s.cache = expirable.NewLRU[string, recommend.Profile](cfg.CacheSize, nil, ttl)
	}
	return s
}

// Get implements domain.ReaderPort
func (s *Svc) Get(ctx context.Context, userID string) (recommend.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return recommend.Profile{}, perr.InvalidArgf("user_id is required")
	}
	if s.cache != nil {
		if p, ok := s.cache.Get(userID); ok {
			return p, nil
		}
	}

	row, found, err := repokit.MustBind(s.binder, s.db).Get(ctx, userID)
	if err != nil {
		return recommend.Profile{}, perr.FromPostgresf(err, "profiles: load %s", userID)
	}
	p := recommend.Profile{UserID: userID, Interests: recommend.NewInterests()}
	if found {
		if p, err = fromRow(row); err != nil {
			return recommend.Profile{}, err
		}
	}
	if s.cache != nil {
		s.cache.Add(userID, p)
	}
	return p, nil
}

// Invalidate drops a cached profile, e.g. after the profile job rewrites it
func (s *Svc) Invalidate(userID string) {
	if s.cache != nil {
		s.cache.Remove(userID)
	}
}

func fromRow(r domain.Row) (recommend.Profile, error) {
	p := recommend.Profile{
		UserID:    r.UserID,
		Interests: recommend.NewInterests(r.Interests...),
	}
	for i, n := range r.Hours {
		if i >= len(p.ActivityPattern.Hours) {
			break
		}
		p.ActivityPattern.Hours[i] = int(n)
	}
	for i, n := range r.Days {
		if i >= len(p.ActivityPattern.Days) {
			break
		}
		p.ActivityPattern.Days[i] = int(n)
	}
	p.ActivityPattern.PostingFrequency = r.PostingFrequency

	var err error
	if p.Preferences.Categories, err = prefs(r.CategoryPrefs, strings.ToLower); err != nil {
		return recommend.Profile{}, perr.Wrapf(err, perr.ErrorCodeJSON, "profiles: category prefs for %s", r.UserID)
	}
	if p.Preferences.Hashtags, err = prefs(r.HashtagPrefs, textfeat.TagKey); err != nil {
		return recommend.Profile{}, perr.Wrapf(err, perr.ErrorCodeJSON, "profiles: hashtag prefs for %s", r.UserID)
	}
	if p.Preferences.Authors, err = prefs(r.AuthorPrefs, nil); err != nil {
		return recommend.Profile{}, perr.Wrapf(err, perr.ErrorCodeJSON, "profiles: author prefs for %s", r.UserID)
	}
	return p, nil
}

// prefs decodes a jsonb affinity object, applying key to every key when set
func prefs(raw []byte, key func(string) string) (map[string]float64, error) {
	out := map[string]float64{}
	if len(raw) == 0 {
		return out, nil
	}
	var m map[string]float64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		if key != nil {
			k = key(k)
		}
		if k != "" {
			out[k] = v
		}
	}
	return out, nil
}
