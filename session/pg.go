package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/querykit/querykit/query"
)

// PG executes statements against PostgreSQL through a pgx pool.
type PG struct {
	pool *Pool
}

func NewPG(pool *Pool) *PG {
	return &PG{pool: pool}
}

func (s *PG) Execute(ctx context.Context, stmt *query.Statement) (Rows, error) {
	slog.Debug("executing statement", "sql", stmt.SQL(), "args", len(stmt.Args()))
	return s.pool.GetConn().Query(ctx, stmt.SQL(), stmt.Args()...)
}

// Stream declares a transaction-scoped server cursor over the statement.
// The returned cursor holds the transaction open until Close.
func (s *PG) Stream(ctx context.Context, stmt *query.Statement, batchSize int) (Cursor, error) {
	tx, err := s.pool.GetConn().Begin(ctx)
	if err != nil {
		return nil, err
	}

	name := cursorName()
	declare := fmt.Sprintf("DECLARE %s NO SCROLL CURSOR FOR %s", name, stmt.SQL())
	if _, err := tx.Exec(ctx, declare, stmt.Args()...); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.Error("failed to roll back after cursor declare", "error", rbErr)
		}
		return nil, err
	}

	slog.Debug("declared server cursor", "cursor", name, "batch_size", batchSize)
	return &pgCursor{tx: tx, name: name, batchSize: batchSize}, nil
}

func cursorName() string {
	return "qk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

type pgCursor struct {
	tx        pgx.Tx
	name      string
	batchSize int
	closed    bool
}

func (c *pgCursor) Fetch(ctx context.Context) (Rows, error) {
	return c.tx.Query(ctx, fmt.Sprintf("FETCH FORWARD %d FROM %s", c.batchSize, c.name))
}

func (c *pgCursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true

	if _, err := c.tx.Exec(ctx, fmt.Sprintf("CLOSE %s", c.name)); err != nil {
		slog.Error("failed to close server cursor", "cursor", c.name, "error", err)
	}
	// The cursor only ever reads, ending the transaction releases it.
	if err := c.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("failed to end cursor transaction: %w", err)
	}
	return nil
}

var _ Session = (*PG)(nil)
