// Package repo provides the verdicts repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	"trustrank/internal/modkit/repokit"
	"trustrank/internal/platform/store"
	"trustrank/internal/services/verdicts/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the verdicts repository
type Storage interface {
	WriteBatch(ctx context.Context, xs []domain.VerdictWrite) (int64, error)
}

const cols = 12

// WriteBatch implements Storage and returns the number of rows inserted
func (s *pg) WriteBatch(ctx context.Context, xs []domain.VerdictWrite) (int64, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO moderation_verdicts
		(id, post_id, user_id, approved, moderation_score, toxicity, risk_score,
		sentiment, reasons, engine_version, source, decided_at) VALUES `)

	args := make([]any, 0, len(xs)*cols)
	for i, v := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*cols + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5,
			base+6, base+7, base+8, base+9, base+10, base+11)

		var postID any
		if v.PostID != "" {
			postID = v.PostID
		}
		args = append(args,
			v.ID, postID, v.UserID, v.Approved, v.ModerationScore, v.Toxicity, v.RiskScore,
			v.Sentiment, v.Reasons, v.EngineVersion, v.Source, v.DecidedAt,
		)
	}
	// one verdict per post per engine version
	sb.WriteString(` ON CONFLICT (post_id, engine_version) DO NOTHING`)
	return store.Affected(ctx, s.q, sb.String(), args...)
}
