package querykit

import (
	"context"

	"github.com/querykit/querykit/query"
	"github.com/querykit/querykit/session"
)

// DefaultBatchSize is the streaming batch size used when the statement
// carries no hint of its own.
const DefaultBatchSize = 1000

// Iter streams the result set through a server-side cursor, fetching one
// batch per round trip and yielding rows one at a time in database order.
// Memory stays bounded by the batch size. The iterator is forward-only and
// non-restartable; callers abandoning it early must Close it to release the
// cursor.
func Iter[T any](ctx context.Context, e *Executor, stmt *query.Statement, scan RowMapper[T]) (*Iterator[T], error) {
	batchSize := stmt.BatchSize()
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	cursor, err := e.sess.Stream(ctx, stmt, batchSize)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("opened streaming iterator", "sql", stmt.SQL(), "batch_size", batchSize)
	return &Iterator[T]{ctx: ctx, cursor: cursor, scan: scan}, nil
}

// Iterator is a lazy, batched view over a streamed result set. It owns the
// underlying cursor: exhaustion releases it automatically, early abandonment
// releases it through Close.
type Iterator[T any] struct {
	ctx    context.Context
	cursor session.Cursor
	scan   RowMapper[T]

	batch   []T
	idx     int
	current T
	err     error
	done    bool
}

// Next advances to the following row, fetching the next batch from the
// session when the current one is drained. It returns false once the result
// set is exhausted or an error occurred.
func (it *Iterator[T]) Next() bool {
	if it.done {
		return false
	}
	for it.idx >= len(it.batch) {
		if !it.fetch() {
			return false
		}
	}
	it.current = it.batch[it.idx]
	it.idx++
	return true
}

// Value returns the row Next advanced to.
func (it *Iterator[T]) Value() T {
	return it.current
}

// Err reports the first failure encountered while streaming.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Close releases the server-side cursor. Safe to call more than once and
// after exhaustion.
func (it *Iterator[T]) Close() error {
	if it.done {
		return nil
	}
	return it.finish()
}

func (it *Iterator[T]) fetch() bool {
	rows, err := it.cursor.Fetch(it.ctx)
	if err != nil {
		it.fail(err)
		return false
	}

	it.batch = it.batch[:0]
	it.idx = 0
	for rows.Next() {
		value, err := it.scan(rows)
		if err != nil {
			rows.Close()
			it.fail(err)
			return false
		}
		it.batch = append(it.batch, value)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		it.fail(err)
		return false
	}

	if len(it.batch) == 0 {
		// Empty batch means the cursor is exhausted.
		if err := it.finish(); err != nil && it.err == nil {
			it.err = err
		}
		return false
	}
	return true
}

func (it *Iterator[T]) fail(err error) {
	if it.err == nil {
		it.err = err
	}
	_ = it.finish()
}

func (it *Iterator[T]) finish() error {
	if it.done {
		return nil
	}
	it.done = true
	// Release must not be skipped when the caller's context is already gone.
	return it.cursor.Close(context.WithoutCancel(it.ctx))
}
