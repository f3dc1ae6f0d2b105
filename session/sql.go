package session

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/querykit/querykit/query"
)

// SQL executes statements through database/sql, for drivers without pgx
// support (e.g. lib/pq). database/sql exposes no portable server cursor,
// so Stream chunks a single result set client-side: memory stays bounded
// by the batch size, but the round-trip granularity is the driver's own.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Execute(ctx context.Context, stmt *query.Statement) (Rows, error) {
	slog.Debug("executing statement", "sql", stmt.SQL(), "args", len(stmt.Args()))
	rows, err := s.db.QueryContext(ctx, stmt.SQL(), stmt.Args()...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (s *SQL) Stream(ctx context.Context, stmt *query.Statement, batchSize int) (Cursor, error) {
	rows, err := s.db.QueryContext(ctx, stmt.SQL(), stmt.Args()...)
	if err != nil {
		return nil, err
	}
	return &sqlCursor{rows: rows, batchSize: batchSize}, nil
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool { return r.rows.Next() }

func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

func (r *sqlRows) Err() error { return r.rows.Err() }

func (r *sqlRows) Close() {
	if err := r.rows.Close(); err != nil {
		slog.Error("failed to close result set", "error", err)
	}
}

type sqlCursor struct {
	rows      *sql.Rows
	batchSize int
	done      bool
	closed    bool
}

func (c *sqlCursor) Fetch(ctx context.Context) (Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &sqlChunk{cursor: c, remaining: c.batchSize}, nil
}

func (c *sqlCursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Close()
}

// sqlChunk is a batchSize-bounded view over the cursor's shared result set.
type sqlChunk struct {
	cursor    *sqlCursor
	remaining int
}

func (c *sqlChunk) Next() bool {
	if c.cursor.done || c.remaining <= 0 {
		return false
	}
	if !c.cursor.rows.Next() {
		c.cursor.done = true
		return false
	}
	c.remaining--
	return true
}

func (c *sqlChunk) Scan(dest ...any) error { return c.cursor.rows.Scan(dest...) }

func (c *sqlChunk) Err() error { return c.cursor.rows.Err() }

// Close is a no-op: the shared result set is released by the cursor.
func (c *sqlChunk) Close() {}

var _ Session = (*SQL)(nil)
