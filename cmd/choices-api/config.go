package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	// Driver picks the session implementation: "pgx" (default) or "pq".
	Driver string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load("cmd/choices-api/.env")
	if err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "pgx"
	}
	if driver != "pgx" && driver != "pq" {
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}

	return &Config{
		Port:        port,
		DatabaseURL: dbURL,
		Driver:      driver,
	}, nil
}
