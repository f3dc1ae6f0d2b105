package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolConfig struct {
	ConnStr string
}

// Pool is a thin wrapper around a pgx connection pool.
type Pool struct {
	conn *pgxpool.Pool
}

func NewPool(ctx context.Context, cfg PoolConfig) (*Pool, error) {
	dbpool, err := pgxpool.New(ctx, cfg.ConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return &Pool{conn: dbpool}, nil
}

func (p *Pool) GetConn() *pgxpool.Pool {
	return p.conn
}

func (p *Pool) Close() {
	p.conn.Close()
}

func (p *Pool) Ping(ctx context.Context) error {
	c, err := p.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.Release()
	return c.Ping(ctx)
}
