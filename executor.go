// Package querykit normalizes how a query's result set is consumed: exactly
// one row, zero-or-one, a full collection, a lazy batched stream, an existence
// check, a count, or a value/label projection. It drives a session.Session
// with an already-built query.Statement and translates only cardinality
// violations into typed errors; every other session fault passes through
// unmodified.
package querykit

import (
	"context"
	"log/slog"

	"github.com/querykit/querykit/query"
	"github.com/querykit/querykit/session"
)

// RowMapper scans the current row into a value of type T.
type RowMapper[T any] func(row session.Row) (T, error)

// Scalar is a RowMapper for single-column results.
func Scalar[T any](row session.Row) (T, error) {
	var v T
	err := row.Scan(&v)
	return v, err
}

// Executor shapes query results against a session it does not own. It holds
// no state between calls; the session is serially reusable, so calls against
// the same executor must not be interleaved without external synchronization.
type Executor struct {
	sess   session.Session
	logger *slog.Logger
}

type Option func(*Executor)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

func New(sess session.Session, opts ...Option) *Executor {
	e := &Executor{
		sess:   sess,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// One returns exactly one row. Zero rows fail with ErrNoResult, more than one
// with ErrMultipleResults.
func One[T any](ctx context.Context, e *Executor, stmt *query.Statement, scan RowMapper[T]) (T, error) {
	value, ok, err := OneOrNone(ctx, e, stmt, scan)
	if err != nil {
		return value, err
	}
	if !ok {
		var zero T
		return zero, ErrNoResult
	}
	return value, nil
}

// OneOrNone returns at most one row. Zero rows report ok=false instead of an
// error; more than one row still fails with ErrMultipleResults.
func OneOrNone[T any](ctx context.Context, e *Executor, stmt *query.Statement, scan RowMapper[T]) (T, bool, error) {
	var zero T

	rows, err := e.sess.Execute(ctx, stmt)
	if err != nil {
		return zero, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, false, err
		}
		return zero, false, nil
	}

	value, err := scan(rows)
	if err != nil {
		return zero, false, err
	}

	if rows.Next() {
		return zero, false, ErrMultipleResults
	}
	if err := rows.Err(); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// OneOrErr returns exactly one row, failing with the caller-supplied error
// when no row exists. Lets callers surface domain-specific not-found
// semantics instead of ErrNoResult.
func OneOrErr[T any](ctx context.Context, e *Executor, stmt *query.Statement, scan RowMapper[T], errv error) (T, error) {
	value, ok, err := OneOrNone(ctx, e, stmt, scan)
	if err != nil {
		return value, err
	}
	if !ok {
		var zero T
		return zero, errv
	}
	return value, nil
}

// OneOrDefault returns the single matching row, or def when no row exists.
// A row that exists but holds the zero value is returned as-is: absence is
// the only condition that triggers the substitution.
func OneOrDefault[T any](ctx context.Context, e *Executor, stmt *query.Statement, scan RowMapper[T], def T) (T, error) {
	value, ok, err := OneOrNone(ctx, e, stmt, scan)
	if err != nil {
		return value, err
	}
	if !ok {
		return def, nil
	}
	return value, nil
}

// All materializes every row into an ordered collection. Memory use is
// unbounded; intended for result sets known to be small.
func All[T any](ctx context.Context, e *Executor, stmt *query.Statement, scan RowMapper[T]) (*Collection[T], error) {
	rows, err := e.sess.Execute(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		value, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	e.logger.Debug("materialized result set", "sql", stmt.SQL(), "rows", len(items))
	return NewCollection(items), nil
}

// Exists runs the statement as the sub-query of a boolean EXISTS probe, so no
// base rows are materialized. True iff the statement would yield at least one row.
func (e *Executor) Exists(ctx context.Context, stmt *query.Statement) (bool, error) {
	return One(ctx, e, stmt.Exists(), Scalar[bool])
}

// Count runs count(*) over the statement as a sub-query, keeping any ordering
// or limit clauses as a pre-filter. An empty result counts as 0.
func (e *Executor) Count(ctx context.Context, stmt *query.Statement) (int64, error) {
	return One(ctx, e, stmt.CountOver(), Scalar[int64])
}
