// Package pgtest spins up throwaway PostgreSQL containers for integration tests.
package pgtest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

type PGConfig struct {
	Database string
	Username string
	Password string
	// InitSQL is executed once before the container is handed out.
	InitSQL string
}

func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	opts := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
	}

	if cfg.InitSQL != "" {
		tmpFile, err := os.CreateTemp("", "init-*.sql")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		if _, err := tmpFile.WriteString(cfg.InitSQL); err != nil {
			return nil, fmt.Errorf("failed to write init script: %w", err)
		}
		if err := tmpFile.Close(); err != nil {
			return nil, fmt.Errorf("failed to close temp file: %w", err)
		}
		opts = append(opts, postgres.WithInitScripts(tmpFile.Name()))
	}

	pgContainer, err := postgres.Run(ctx,
		"postgres:17.5",
		append(opts,
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PGContainer{
		Container:  pgContainer,
		ConnString: connStr,
	}, nil
}
