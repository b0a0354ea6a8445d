package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trustrank/internal/core/fraud"
	"trustrank/internal/core/moderation"
	"trustrank/internal/core/sentiment"
	"trustrank/internal/core/version"
	perr "trustrank/internal/platform/errors"
	"trustrank/internal/platform/store"
	"trustrank/internal/platform/store/storetest"
	dom "trustrank/internal/services/verdicts/domain"
	"trustrank/internal/services/verdicts/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestWriteBatch_FillsIDsAndBindsArgs(t *testing.T) {
	db := &storetest.DB{Affected: 1}
	s := New(db, repo.NewPG(), zerolog.Nop())
	s.now = func() time.Time { return t0 }

	d := moderation.Decide(
		sentiment.Result{Sentiment: sentiment.Negative, Toxicity: 0.8},
		fraud.Signal{RiskScore: 0.2, Reasons: []string{fraud.ReasonUnusualTime}},
	)
	xs := []dom.VerdictWrite{
		dom.FromDecision("p1", "u1", dom.SourceSweep, d, t0),
		{UserID: "u2", Source: dom.SourceAPI},
	}
	if err := s.WriteBatch(context.Background(), xs); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	c := db.Last()
	if !strings.Contains(c.SQL, "ON CONFLICT (post_id, engine_version) DO NOTHING") {
		t.Fatalf("sql=%s", c.SQL)
	}
	if len(c.Args) != 24 {
		t.Fatalf("args=%d", len(c.Args))
	}
	if _, err := uuid.Parse(c.Args[0].(string)); err != nil {
		t.Fatalf("id %v: %v", c.Args[0], err)
	}
	if c.Args[1] != "p1" || c.Args[3] != false || c.Args[7] != "negative" || c.Args[9] != version.EngineVersion {
		t.Fatalf("first row=%v", c.Args[:12])
	}
	if c.Args[13] != nil {
		t.Fatalf("empty post id should bind NULL, got %v", c.Args[13])
	}
	if r, ok := c.Args[20].([]string); !ok || r == nil {
		t.Fatalf("reasons should bind an empty array, got %#v", c.Args[20])
	}
	if !c.Args[23].(time.Time).Equal(t0) {
		t.Fatalf("decided_at=%v", c.Args[23])
	}
}

func TestWriteBatch_Errors(t *testing.T) {
	db := &storetest.DB{}
	s := New(db, repo.NewPG(), zerolog.Nop())
	if err := s.WriteBatch(context.Background(), nil); err != nil || len(db.Calls()) != 0 {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}
	if err := s.WriteBatch(context.Background(), []dom.VerdictWrite{{}}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err=%v", err)
	}
	db.ExecErr = errors.New("pool closed")
	if err := s.WriteBatch(context.Background(), []dom.VerdictWrite{{UserID: "u"}}); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err=%v", err)
	}
}

func TestFromDecision_CopiesReasons(t *testing.T) {
	reasons := []string{"a"}
	d := moderation.Decision{Fraud: fraud.Signal{Reasons: reasons}}
	v := dom.FromDecision("", "u", dom.SourceAPI, d, t0)
	reasons[0] = "mutated"
	if v.Reasons[0] != "a" || v.EngineVersion != version.EngineVersion {
		t.Fatalf("v=%+v", v)
	}
}

// flakyDB fails the first fails transactions with a serialization error
type flakyDB struct {
	*storetest.DB
	fails int
	txs   int
}

func (f *flakyDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	f.txs++
	if f.txs <= f.fails {
		return &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	}
	return f.DB.Tx(ctx, fn)
}

func TestWriteBatch_RetriesSerializationFailures(t *testing.T) {
	db := &flakyDB{DB: &storetest.DB{Affected: 1}, fails: 2}
	s := New(db, repo.NewPG(), zerolog.Nop())
	s.backoff = func(int) time.Duration { return 0 }

	if err := s.WriteBatch(context.Background(), []dom.VerdictWrite{{UserID: "u"}}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if db.txs != 3 || len(db.Calls()) != 1 {
		t.Fatalf("txs=%d calls=%d", db.txs, len(db.Calls()))
	}

	db = &flakyDB{DB: &storetest.DB{}, fails: 5}
	s = New(db, repo.NewPG(), zerolog.Nop())
	s.backoff = func(int) time.Duration { return 0 }
	if err := s.WriteBatch(context.Background(), []dom.VerdictWrite{{UserID: "u"}}); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err=%v", err)
	}
	if db.txs != maxAttempts {
		t.Fatalf("txs=%d", db.txs)
	}
}
