package store

import (
	"context"
	"errors"

	perr "trustrank/internal/platform/errors"
)

// ScanFunc maps the current row into T
type ScanFunc[T any] func(Row) (T, error)

// One runs sql and scans the first row. No rows yields perr.ErrNotFound and
// extra rows are an error
func One[T any](ctx context.Context, q RowQuerier, scan ScanFunc[T], sql string, args ...any) (T, error) {
	var zero T
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	item, err := scan(rows)
	if err != nil {
		return zero, err
	}
	if rows.Next() {
		return zero, errors.New("store: expected one row, got more")
	}
	return item, rows.Err()
}

// Many runs sql and scans every row. sizeHint preallocates the result
func Many[T any](ctx context.Context, q RowQuerier, scan ScanFunc[T], sizeHint int, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0, max(sizeHint, 0))
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Affected runs a write and returns the affected row count
func Affected(ctx context.Context, q RowQuerier, sql string, args ...any) (int64, error) {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
