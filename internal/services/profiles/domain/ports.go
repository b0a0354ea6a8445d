// Package domain defines the behavior profile contracts
package domain

import (
	"context"

	"trustrank/internal/core/recommend"
)

// ReaderPort loads behavior profiles. Unknown users resolve to an empty profile, not an error
type ReaderPort interface {
	Get(ctx context.Context, userID string) (recommend.Profile, error)
}

// Row is the stored shape of a behavior profile
type Row struct {
	UserID           string
	Interests        []string
	Hours            []int32
	Days             []int32
	PostingFrequency float64
	CategoryPrefs    []byte // jsonb object of key -> affinity
	HashtagPrefs     []byte
	AuthorPrefs      []byte
}
