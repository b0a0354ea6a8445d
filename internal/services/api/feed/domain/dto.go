// Package domain holds DTOs for feed ranking http and service contracts
package domain

import (
	"time"

	"trustrank/internal/core/recommend"
)

// ItemInput is a candidate post supplied by the caller
type ItemInput struct {
	ID        string    `json:"id" validate:"required,max=128" example:"post-1"`
	AuthorID  string    `json:"author_id" validate:"max=128" example:"author-9"`
	Text      string    `json:"text" validate:"max=20000" example:"Weekend hike photos #outdoors"`
	HasMedia  bool      `json:"has_media" example:"true"`
	CreatedAt time.Time `json:"created_at" validate:"required" example:"2026-10-01T18:30:00Z"`
}

// Item converts the DTO to the engine type
func (in ItemInput) Item() recommend.Item {
	return recommend.Item{
		ID:        in.ID,
		AuthorID:  in.AuthorID,
		Text:      in.Text,
		HasMedia:  in.HasMedia,
		CreatedAt: in.CreatedAt,
	}
}

// RankInput ranks the given items, or the viewer's recent candidates when items is empty
type RankInput struct {
	UserID string      `json:"user_id" validate:"required,userid,max=128" example:"user-1"`
	Items  []ItemInput `json:"items,omitempty" validate:"omitempty,max=1000,dive"`
	Limit  int         `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"20"`
}

// RankOutput is the ranked slice
type RankOutput struct {
	UserID     string            `json:"user_id" example:"user-1"`
	Candidates int               `json:"candidates" example:"120"`
	Results    []recommend.Score `json:"results"`
}

// ScoreInput scores a single item
type ScoreInput struct {
	UserID string    `json:"user_id" validate:"required,userid,max=128" example:"user-1"`
	Item   ItemInput `json:"item"`
}
