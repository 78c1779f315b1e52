// Command admin runs schema migrations and maintenance against the exam
// result database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/examsheet/internal/admin"
	"github.com/JonMunkholm/examsheet/internal/config"
	"github.com/JonMunkholm/examsheet/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if !cfg.Storage.UsesPostgres() {
		slog.Error("admin commands need STORAGE_DRIVER=postgres", "driver", cfg.Storage.Driver)
		os.Exit(1)
	}

	cli := commandLine{
		out: os.Stdout,
		openMigrator: func() (admin.Migrator, func(), error) {
			m, err := admin.NewMigrator(cfg.Database.URL)
			if err != nil {
				return nil, nil, err
			}
			return m, func() {
				if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
					slog.Warn("closing migrator", "source_error", srcErr, "database_error", dbErr)
				}
			}, nil
		},
		resetResults: func(ctx context.Context) error {
			pool, err := pgxpool.New(ctx, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer pool.Close()

			r := &admin.Resetter{DB: pool, Timeout: cfg.Upload.ResetTimeout}
			return r.ResetResults(ctx)
		},
	}

	if err := cli.run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			slog.Error("command failed", failureArgs(err)...)
		}
		os.Exit(1)
	}
}
