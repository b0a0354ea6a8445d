package ch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trustrank/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type fakeBatch struct {
	driver.Batch
	rows    [][]any
	sent    bool
	aborted bool
	failAt  int
}

func (b *fakeBatch) Append(v ...any) error {
	if b.failAt > 0 && len(b.rows)+1 == b.failAt {
		return errors.New("bad row")
	}
	b.rows = append(b.rows, v)
	return nil
}
func (b *fakeBatch) Send() error  { b.sent = true; return nil }
func (b *fakeBatch) Abort() error { b.aborted = true; return nil }

type fakeConn struct {
	pingErr  error
	batch    *fakeBatch
	prepared string
	closed   bool
	lastSQL  string
}

func (c *fakeConn) Ping(context.Context) error { return c.pingErr }
func (c *fakeConn) PrepareBatch(_ context.Context, q string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	c.prepared = q
	return c.batch, nil
}
func (c *fakeConn) Query(_ context.Context, q string, _ ...any) (driver.Rows, error) {
	c.lastSQL = q
	return nil, errors.New("no rows in fake")
}
func (c *fakeConn) Close() error { c.closed = true; return nil }

func TestOpen_EmptyURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty URL")
	}
}

func TestOpen_AppliesOptionsAndPings(t *testing.T) {
	fc := &fakeConn{}
	var seen *clickhouse.Options
	testkit.Swap(t, &open, func(o *clickhouse.Options) (conn, error) {
		seen = o
		return fc, nil
	})

	c, err := Open(context.Background(), Config{URL: "clickhouse://default:@localhost:9000/trustrank", Role: "api", MaxOpenConns: 7})
	if err != nil || c == nil {
		t.Fatalf("Open: %v", err)
	}
	if seen.MaxOpenConns != 7 {
		t.Fatalf("MaxOpenConns=%d", seen.MaxOpenConns)
	}
	if len(seen.ClientInfo.Products) == 0 || seen.ClientInfo.Products[0].Name != "trustrank" {
		t.Fatalf("client info=%+v", seen.ClientInfo)
	}
}

func TestOpen_PingFailureCloses(t *testing.T) {
	fc := &fakeConn{pingErr: errors.New("down")}
	testkit.Swap(t, &open, func(*clickhouse.Options) (conn, error) { return fc, nil })

	_, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/x"})
	if err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("err=%v", err)
	}
	if !fc.closed {
		t.Fatalf("conn should be closed after failed ping")
	}
}

func TestInsert_BatchesRows(t *testing.T) {
	fb := &fakeBatch{}
	c := &CH{conn: &fakeConn{batch: fb}}
	err := c.Insert(context.Background(), "activity_events", [][]any{{"u1", "react"}, {"u2", "follow"}})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !fb.sent || len(fb.rows) != 2 {
		t.Fatalf("batch=%+v", fb)
	}
	if err := c.Insert(context.Background(), "t", nil); err != nil {
		t.Fatalf("empty insert should be a no-op: %v", err)
	}
}

func TestInsert_AppendFailureAborts(t *testing.T) {
	fb := &fakeBatch{failAt: 2}
	fc := &fakeConn{batch: fb}
	c := &CH{conn: fc}
	err := c.Insert(context.Background(), "t", [][]any{{1}, {2}, {3}})
	if err == nil || !fb.aborted || fb.sent {
		t.Fatalf("err=%v batch=%+v", err, fb)
	}
	if fc.prepared != "INSERT INTO t" {
		t.Fatalf("prepared=%q", fc.prepared)
	}
}

func TestQuery_ErrorPassthrough(t *testing.T) {
	fc := &fakeConn{}
	c := &CH{conn: fc}
	rows, err := c.Query(context.Background(), "SELECT 1")
	if err == nil || rows != nil {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
	if fc.lastSQL != "SELECT 1" {
		t.Fatalf("sql=%q", fc.lastSQL)
	}
}

func TestBuildClientInfo_BlankPartsAreUnknown(t *testing.T) {
	info := BuildClientInfo(" ", "trustrank")
	got := map[string]string{}
	for _, p := range info.Products {
		got[p.Name] = p.Version
	}
	if got["trustrank"] != "trustrank" || got["role"] != "unknown" || got["go"] == "unknown" {
		t.Fatalf("products=%v", got)
	}
}
