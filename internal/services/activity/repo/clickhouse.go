// Package repo provides the activity backends
package repo

import (
	"context"
	"time"

	"trustrank/internal/core/fraud"
	"trustrank/internal/platform/store"
	"trustrank/internal/services/activity/domain"
)

// Table is the clickhouse event table
const Table = "activity_events"

// CH stores activity in clickhouse
type CH struct {
	db store.Clickhouse
}

var _ domain.Store = (*CH)(nil)

// NewCH constructs the clickhouse backend
func NewCH(db store.Clickhouse) *CH {
	if db == nil {
		panic("activity: clickhouse backend requires a non nil store.Clickhouse")
	}
	return &CH{db: db}
}

// Append implements domain.Store
func (c *CH) Append(ctx context.Context, ev domain.Event) error {
	return c.db.Insert(ctx, Table, [][]any{{ev.UserID, string(ev.Action), ev.PostID, ev.At.UTC()}})
}

// History implements domain.Store
func (c *CH) History(ctx context.Context, q domain.Query) (fraud.History, error) {
	// newest first so the limit keeps the most recent rows
	where, args := "user_id = ? AND at >= ?", []any{q.UserID, q.Since.UTC()}
	if !q.Until.IsZero() {
		where += " AND at < ?"
		args = append(args, q.Until.UTC())
	}
	sql := `
SELECT action, post_id, at
FROM activity_events
WHERE ` + where + `
ORDER BY at DESC
LIMIT ?`
	rows, err := c.db.Query(ctx, sql, append(args, q.MaxActions)...)
	if err != nil {
		return fraud.History{}, err
	}
	defer rows.Close()

	var evs []domain.Event
	for rows.Next() {
		var (
			action, postID string
			at             time.Time
		)
		if err := rows.Scan(&action, &postID, &at); err != nil {
			return fraud.History{}, err
		}
		evs = append(evs, domain.Event{UserID: q.UserID, Action: fraud.Action(action), PostID: postID, At: at})
	}
	if err := rows.Err(); err != nil {
		return fraud.History{}, err
	}
	return Build(evs, q.MaxPosts), nil
}

// Build turns newest-first events into an oldest-first History,
// keeping at most maxPosts posts
func Build(newestFirst []domain.Event, maxPosts int) fraud.History {
	h := fraud.History{
		RecentPosts:   []fraud.RecentPost{},
		RecentActions: make([]fraud.RecentAction, 0, len(newestFirst)),
	}
	for i := len(newestFirst) - 1; i >= 0; i-- {
		ev := newestFirst[i]
		h.RecentActions = append(h.RecentActions, fraud.RecentAction{Action: ev.Action, At: ev.At})
		if ev.Action == fraud.ActionCreatePost {
			h.RecentPosts = append(h.RecentPosts, fraud.RecentPost{ID: ev.PostID, CreatedAt: ev.At})
		}
	}
	if maxPosts > 0 && len(h.RecentPosts) > maxPosts {
		h.RecentPosts = h.RecentPosts[len(h.RecentPosts)-maxPosts:]
	}
	return h
}
