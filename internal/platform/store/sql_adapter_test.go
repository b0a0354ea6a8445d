package store

import (
	"context"
	"errors"
	"testing"

	"trustrank/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakePGRows is a pgx.Rows over fixed string values
type fakePGRows struct {
	pgx.Rows
	cols   []string
	data   [][]string
	i      int
	closed bool
}

func (r *fakePGRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakePGRows) Scan(dest ...any) error {
	vals := r.data[r.i-1]
	if len(vals) != len(dest) {
		return errors.New("dest len mismatch")
	}
	for i, d := range dest {
		*(d.(*string)) = vals[i]
	}
	return nil
}

func (r *fakePGRows) Err() error { return nil }
func (r *fakePGRows) Close()     { r.closed = true }
func (r *fakePGRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

type fakePGRow struct{ err error }

func (r fakePGRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = "one"
	return nil
}

type fakeConn struct {
	rows    *fakePGRows
	rowErr  error
	err     error
	lastSQL string
}

func (c *fakeConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.lastSQL = sql
	return pgconn.NewCommandTag("INSERT 0 2"), c.err
}

func (c *fakeConn) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	c.lastSQL = sql
	if c.err != nil {
		return nil, c.err
	}
	return c.rows, nil
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	c.lastSQL = sql
	return fakePGRow{err: c.rowErr}
}

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

func TestQuerier_ExecQueryAndTrace(t *testing.T) {
	ctx := context.Background()
	fc := &fakeConn{rows: &fakePGRows{cols: []string{"id", "body"}, data: [][]string{{"1", "a"}, {"2", "b"}}}}
	tr := &recTracer{}
	q := querier{c: fc, tracer: tr, slowUS: 0}

	ct, err := q.Exec(ctx, "insert into t values ($1)", 1)
	if err != nil || ct.RowsAffected() != 2 || ct.String() != "INSERT 0 2" {
		t.Fatalf("exec tag=%v err=%v", ct, err)
	}

	rs, err := q.Query(ctx, "select id, body from t")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 2 || cols[1] != "body" {
		t.Fatalf("cols=%v", cols)
	}
	var got []string
	for rs.Next() {
		var id, body string
		if err := rs.Scan(&id, &body); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, id+body)
	}
	rs.Close()
	if len(got) != 2 || got[1] != "2b" || !fc.rows.closed {
		t.Fatalf("got=%v closed=%v", got, fc.rows.closed)
	}

	var one string
	if err := q.QueryRow(ctx, "select 'one'").Scan(&one); err != nil || one != "one" {
		t.Fatalf("row=%q err=%v", one, err)
	}

	if len(tr.events) != 3 {
		t.Fatalf("events=%d", len(tr.events))
	}
	// slowUS 0 marks everything slow
	if !tr.events[0].Slow || tr.events[0].SQL != "insert into t values ($1)" {
		t.Fatalf("event=%+v", tr.events[0])
	}
}

func TestQuerier_ErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	tr := &recTracer{}
	q := querier{c: &fakeConn{err: boom, rowErr: pgx.ErrNoRows}, tracer: tr, slowUS: -1}

	if _, err := q.Exec(ctx, "update t set x = 1"); !errors.Is(err, boom) {
		t.Fatalf("exec err=%v", err)
	}
	if rs, err := q.Query(ctx, "select 1"); !errors.Is(err, boom) || rs != nil {
		t.Fatalf("query rs=%v err=%v", rs, err)
	}
	var s string
	if err := q.QueryRow(ctx, "select 1").Scan(&s); !errors.Is(err, ErrNoRows) {
		t.Fatalf("row err=%v", err)
	}

	// no rows is not a failed statement
	last := tr.events[len(tr.events)-1]
	if last.Err != nil || last.Slow {
		t.Fatalf("last event=%+v", last)
	}
	if !errors.Is(tr.events[0].Err, boom) {
		t.Fatalf("first event=%+v", tr.events[0])
	}
}

func TestQuerier_NilTracer(t *testing.T) {
	q := querier{c: &fakeConn{}}
	if _, err := q.Exec(context.Background(), "select 1"); err != nil {
		t.Fatalf("exec: %v", err)
	}
}

func TestPGAdapter_PingNil(t *testing.T) {
	var a *pgAdapter
	if err := a.Ping(context.Background()); err == nil {
		t.Fatalf("expected error for nil adapter")
	}
}
