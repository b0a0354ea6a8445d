// Package repo provides postgres access for behavior profiles
package repo

import (
	"context"
	"errors"

	"trustrank/internal/modkit/repokit"
	perr "trustrank/internal/platform/errors"
	"trustrank/internal/platform/store"
	"trustrank/internal/services/profiles/domain"
)

// Repo is the persistence surface for profiles
type Repo interface {
	// Get returns the stored row and false when the user has no profile yet
	Get(ctx context.Context, userID string) (domain.Row, bool, error)
}

type (
	// PG binds the repo to a Queryer
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

var _ Repo = (*queries)(nil)

// NewPG returns a binder for the postgres repo
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Get(ctx context.Context, userID string) (domain.Row, bool, error) {
	const sql = `
select user_id, interests, hours, days, posting_frequency,
	coalesce(category_prefs, '{}'::jsonb), coalesce(hashtag_prefs, '{}'::jsonb), coalesce(author_prefs, '{}'::jsonb)
from behavior_profiles
where user_id = $1
`
	row, err := store.One(ctx, r.q, scanRow, sql, userID)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Row{}, false, nil
	}
	if err != nil {
		return domain.Row{}, false, err
	}
	return row, true, nil
}

func scanRow(r store.Row) (domain.Row, error) {
	var row domain.Row
	err := r.Scan(
		&row.UserID, &row.Interests, &row.Hours, &row.Days, &row.PostingFrequency,
		&row.CategoryPrefs, &row.HashtagPrefs, &row.AuthorPrefs,
	)
	return row, err
}
