// Package storetest provides in-memory fakes for the store seams so repos and
// services can be exercised without a database
package storetest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"trustrank/internal/platform/store"
)

// Call records one statement sent to the fake
type Call struct {
	SQL  string
	Args []any
}

// Result is what a scripted query returns
type Result struct {
	Rows [][]any
	Err  error
}

// DB is a scripted store.TxRunner. Queries are answered by the first
// registered responder whose key is a substring of the SQL text
type DB struct {
	mu        sync.Mutex
	calls     []Call
	responses []response
	ExecErr   error
	Affected  int64
	TxErr     error
}

type response struct {
	match string
	res   Result
}

var _ store.TxRunner = (*DB)(nil)

// On registers a result for any query containing match
func (d *DB) On(match string, res Result) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responses = append(d.responses, response{match: match, res: res})
	return d
}

// Calls returns a copy of the recorded statements
func (d *DB) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Last returns the most recent statement or a zero Call
func (d *DB) Last() Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.calls) == 0 {
		return Call{}
	}
	return d.calls[len(d.calls)-1]
}

func (d *DB) record(sql string, args []any) Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{SQL: sql, Args: args})
	for _, r := range d.responses {
		if strings.Contains(sql, r.match) {
			return r.res
		}
	}
	return Result{}
}

// Exec implements store.RowQuerier
func (d *DB) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	d.record(sql, args)
	if d.ExecErr != nil {
		return nil, d.ExecErr
	}
	return tag(d.Affected), nil
}

// Query implements store.RowQuerier
func (d *DB) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	res := d.record(sql, args)
	if res.Err != nil {
		return nil, res.Err
	}
	return &Rows{Data: res.Rows}, nil
}

// QueryRow implements store.RowQuerier; no rows yields store.ErrNoRows
func (d *DB) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	res := d.record(sql, args)
	if res.Err != nil {
		return row{err: res.Err}
	}
	if len(res.Rows) == 0 {
		return row{err: store.ErrNoRows}
	}
	return row{vals: res.Rows[0]}
}

// Tx implements store.TxRunner by running fn against the same fake
func (d *DB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	if d.TxErr != nil {
		return d.TxErr
	}
	return fn(d)
}

type tag int64

func (t tag) String() string      { return fmt.Sprintf("OK %d", int64(t)) }
func (t tag) RowsAffected() int64 { return int64(t) }

type row struct {
	vals []any
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.vals, dest)
}

// Rows iterates a fixed result set
type Rows struct {
	Data   [][]any
	Cols   []string
	i      int
	err    error
	closed bool
}

// Next implements store.Rows
func (r *Rows) Next() bool {
	if r.closed || r.err != nil || r.i >= len(r.Data) {
		return false
	}
	r.i++
	return true
}

// Scan implements store.Rows
func (r *Rows) Scan(dest ...any) error {
	if r.i == 0 {
		return errors.New("storetest: Scan before Next")
	}
	if err := assign(r.Data[r.i-1], dest); err != nil {
		r.err = err
		return err
	}
	return nil
}

// Err implements store.Rows
func (r *Rows) Err() error { return r.err }

// Close implements store.Rows
func (r *Rows) Close() { r.closed = true }

// Columns implements store.Rows
func (r *Rows) Columns() []string { return r.Cols }

// assign copies vals into pointer destinations, converting where reflect allows
func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("storetest: scan %d values into %d destinations", len(vals), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("storetest: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		sv := reflect.ValueOf(vals[i])
		switch {
		case sv.Type().AssignableTo(target.Type()):
			target.Set(sv)
		case target.Kind() == reflect.Pointer && sv.Type().AssignableTo(target.Type().Elem()):
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(sv)
			target.Set(p)
		case sv.Type().ConvertibleTo(target.Type()):
			target.Set(sv.Convert(target.Type()))
		default:
			return fmt.Errorf("storetest: cannot scan %T into %s", vals[i], target.Type())
		}
	}
	return nil
}
