// Package repo provides postgres access for posts
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trustrank/internal/modkit/repokit"
	"trustrank/internal/platform/store"
	"trustrank/internal/services/content/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the posts repository
type Storage interface {
	Recent(ctx context.Context, viewerID string, since time.Time, limit int) ([]domain.Post, error)
	Pending(ctx context.Context, since, until time.Time, after domain.AfterKey, limit int) ([]domain.Post, domain.AfterKey, error)
}

type pg struct{ q repokit.Queryer }

const postCols = `p.id::text, p.author_id, p.content, coalesce(p.links, '{}'), p.has_media, p.created_at`

func (s *pg) Recent(ctx context.Context, viewerID string, since time.Time, limit int) ([]domain.Post, error) {
	const sql = `
select ` + postCols + `
from posts p
where p.created_at >= $1
	and p.author_id <> $2
	and p.deleted_at is null
	and coalesce(p.is_approved, true)
order by p.created_at desc, p.id
limit $3
`
	return store.Many(ctx, s.q, scanPost, limit, sql, since, viewerID, limit)
}

func (s *pg) Pending(ctx context.Context, since, until time.Time, after domain.AfterKey, limit int) ([]domain.Post, domain.AfterKey, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
select ` + postCols + `
from posts p
where p.created_at >= ` + arg(since) + ` and p.created_at < ` + arg(until) + `
	and p.deleted_at is null
	and not exists (select 1 from moderation_verdicts v where v.post_id = p.id)
`)
	// keyset only past the first page
	if after.ID != "" {
		sb.WriteString("  and (p.created_at, p.id) > (" + arg(after.CreatedAt) + ", " + arg(after.ID) + "::uuid)\n")
	}
	sb.WriteString("order by p.created_at, p.id\nlimit " + arg(limit))

	out, err := store.Many(ctx, s.q, scanPost, limit, sb.String(), args...)
	if err != nil || len(out) == 0 {
		return out, domain.AfterKey{}, err
	}
	last := out[len(out)-1]
	return out, domain.AfterKey{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}

func scanPost(r store.Row) (domain.Post, error) {
	var p domain.Post
	err := r.Scan(&p.ID, &p.AuthorID, &p.Content, &p.Links, &p.HasMedia, &p.CreatedAt)
	return p, err
}
