// choices-api is a small demo server populating selection widgets from a
// countries table through the result-shaping executor.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"

	"github.com/querykit/querykit"
	"github.com/querykit/querykit/internal/middleware"
	"github.com/querykit/querykit/query"
	"github.com/querykit/querykit/session"
)

type country struct {
	ID   int64
	Name string
}

func scanCountry(row session.Row) (country, error) {
	var c country
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	sess, closeSession, err := newSession(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open database session", "error", err)
		os.Exit(1)
	}
	defer closeSession()

	executor := querykit.New(sess)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/countries/choices", func(c echo.Context) error {
		stmt := query.New("SELECT id, name FROM countries ORDER BY name")
		choices, err := querykit.Choices(c.Request().Context(), executor, stmt, scanCountry,
			querykit.ByField[country]("ID"), querykit.ByField[country]("Name"))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, choices)
	})

	e.GET("/countries/count", func(c echo.Context) error {
		stmt := query.New("SELECT id FROM countries")
		n, err := executor.Count(c.Request().Context(), stmt)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]int64{"count": n})
	})

	e.GET("/countries/:name", func(c echo.Context) error {
		stmt := query.New("SELECT id, name FROM countries WHERE name = $1", c.Param("name"))
		found, err := querykit.OneOrErr(c.Request().Context(), executor, stmt, scanCountry,
			echo.NewHTTPError(http.StatusNotFound, "country not found"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, found)
	})

	slog.Info("Starting choices API", "port", cfg.Port, "driver", cfg.Driver)
	if err := e.Start(":" + cfg.Port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func newSession(ctx context.Context, cfg *Config) (session.Session, func(), error) {
	if cfg.Driver == "pq" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, nil, err
		}
		return session.NewSQL(db), func() {
			if err := db.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}, nil
	}

	pool, err := session.NewPool(ctx, session.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, err
	}
	return session.NewPG(pool), pool.Close, nil
}
