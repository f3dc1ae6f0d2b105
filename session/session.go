// Package session abstracts the data-access session a query executor drives.
//
// A session owns the physical connection and transaction; executors hold a
// non-owning reference and issue one statement at a time. Faults raised here
// (connectivity, syntax, constraints) are surfaced to callers unmodified.
package session

import (
	"context"

	"github.com/querykit/querykit/query"
)

// Row scans a single result row into destination pointers.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward-only result set. pgx.Rows satisfies it directly.
type Rows interface {
	Row
	Next() bool
	Err() error
	Close()
}

// Cursor fetches a streamed result set in fixed-size batches.
// An empty batch means the cursor is exhausted. Close releases the
// server-side resource and is safe to call more than once.
type Cursor interface {
	Fetch(ctx context.Context) (Rows, error)
	Close(ctx context.Context) error
}

// Session executes statements against a database.
type Session interface {
	// Execute runs the statement in a single round trip.
	Execute(ctx context.Context, stmt *query.Statement) (Rows, error)
	// Stream runs the statement behind a server-side cursor fetching
	// batchSize rows per round trip.
	Stream(ctx context.Context, stmt *query.Statement, batchSize int) (Cursor, error)
}
