// Package service applies window and cap policy over an activity backend
package service

import (
	"context"
	"strings"
	"time"

	"trustrank/internal/core/fraud"
	perr "trustrank/internal/platform/errors"
	"trustrank/internal/services/activity/domain"
)

// Config for the activity service
type Config struct {
	Window     time.Duration // defaults to 1h
	MaxActions int           // defaults to 200
	MaxPosts   int           // defaults to 50
	Now        func() time.Time
}

// Service implements domain.ReaderPort and domain.RecorderPort
type Service struct {
	store domain.Store
	cfg   Config
}

var (
	_ domain.ReaderPort   = (*Service)(nil)
	_ domain.RecorderPort = (*Service)(nil)
)

// New constructs the activity service
func New(st domain.Store, cfg Config) *Service {
	if st == nil {
		panic("activity.Service requires a non nil Store")
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	if cfg.MaxActions <= 0 {
		cfg.MaxActions = 200
	}
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = 50
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{store: st, cfg: cfg}
}

// History implements domain.ReaderPort
func (s *Service) History(ctx context.Context, userID string) (fraud.History, error) {
	return s.history(ctx, userID, s.cfg.Now(), time.Time{})
}

// HistoryAt implements domain.ReaderPort. Events at or after at are left out
func (s *Service) HistoryAt(ctx context.Context, userID string, at time.Time) (fraud.History, error) {
	if at.IsZero() {
		return s.History(ctx, userID)
	}
	return s.history(ctx, userID, at, at)
}

func (s *Service) history(ctx context.Context, userID string, end, until time.Time) (fraud.History, error) {
	if strings.TrimSpace(userID) == "" {
		return fraud.History{}, perr.InvalidArgf("user_id is required")
	}
	h, err := s.store.History(ctx, domain.Query{
		UserID:     userID,
		Since:      end.Add(-s.cfg.Window),
		Until:      until,
		MaxActions: s.cfg.MaxActions,
		MaxPosts:   s.cfg.MaxPosts,
	})
	if err != nil {
		return fraud.History{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "activity: history for %s", userID)
	}
	return h, nil
}

// Record implements domain.RecorderPort
func (s *Service) Record(ctx context.Context, ev domain.Event) error {
	if strings.TrimSpace(ev.UserID) == "" {
		return perr.InvalidArgf("user_id is required")
	}
	if !ev.Action.Valid() {
		return perr.InvalidArgf("unknown action %q", ev.Action)
	}
	if ev.At.IsZero() {
		ev.At = s.cfg.Now()
	}
	if err := s.store.Append(ctx, ev); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "activity: record %s", ev.Action)
	}
	return nil
}
