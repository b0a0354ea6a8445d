package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trustrank/internal/core/fraud"
	"trustrank/internal/services/activity/domain"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces the per-user sorted sets
const KeyPrefix = "trustrank:activity:"

// Redis keeps a sliding window of actions per user in a sorted set scored by unix millis.
// Members are "<unix nanos>|<action>|<post id>"
type Redis struct {
	rdb    redis.UniversalClient
	window time.Duration
	now    func() time.Time
}

var _ domain.Store = (*Redis)(nil)

// NewRedis constructs the redis backend; window bounds how long actions are kept
func NewRedis(rdb redis.UniversalClient, window time.Duration, now func() time.Time) *Redis {
	if rdb == nil {
		panic("activity: redis backend requires a non nil client")
	}
	if window <= 0 {
		window = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Redis{rdb: rdb, window: window, now: now}
}

func key(userID string) string { return KeyPrefix + userID }

// Append implements domain.Store. Entries older than the window are trimmed on write
func (r *Redis) Append(ctx context.Context, ev domain.Event) error {
	k := key(ev.UserID)
	member := fmt.Sprintf("%d|%s|%s", ev.At.UnixNano(), ev.Action, ev.PostID)
	cutoff := r.now().Add(-r.window).UnixMilli()

	_, err := r.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, k, redis.Z{Score: float64(ev.At.UnixMilli()), Member: member})
		p.ZRemRangeByScore(ctx, k, "-inf", "("+strconv.FormatInt(cutoff, 10))
		p.Expire(ctx, k, r.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("activity: redis append: %w", err)
	}
	return nil
}

// History implements domain.Store
func (r *Redis) History(ctx context.Context, q domain.Query) (fraud.History, error) {
	upper := "+inf"
	if !q.Until.IsZero() {
		upper = "(" + strconv.FormatInt(q.Until.UnixMilli(), 10)
	}
	members, err := r.rdb.ZRevRangeByScore(ctx, key(q.UserID), &redis.ZRangeBy{
		Min:   strconv.FormatInt(q.Since.UnixMilli(), 10),
		Max:   upper,
		Count: int64(q.MaxActions),
	}).Result()
	if err != nil {
		return fraud.History{}, fmt.Errorf("activity: redis history: %w", err)
	}

	evs := make([]domain.Event, 0, len(members))
	for _, m := range members {
		ev, ok := parseMember(m)
		if !ok {
			continue
		}
		ev.UserID = q.UserID
		evs = append(evs, ev)
	}
	return Build(evs, q.MaxPosts), nil
}

func parseMember(m string) (domain.Event, bool) {
	parts := strings.SplitN(m, "|", 3)
	if len(parts) != 3 {
		return domain.Event{}, false
	}
	ns, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return domain.Event{}, false
	}
	return domain.Event{Action: fraud.Action(parts[1]), PostID: parts[2], At: time.Unix(0, ns).UTC()}, true
}

// Disabled is the backend used when neither clickhouse nor redis is wired.
// Reads see an empty history and writes are dropped
type Disabled struct{}

// Append implements domain.Store
func (Disabled) Append(context.Context, domain.Event) error { return nil }

// History implements domain.Store
func (Disabled) History(context.Context, domain.Query) (fraud.History, error) {
	return fraud.History{RecentPosts: []fraud.RecentPost{}, RecentActions: []fraud.RecentAction{}}, nil
}
