package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/JonMunkholm/examsheet/internal/config"
	"github.com/JonMunkholm/examsheet/internal/core"
	"github.com/JonMunkholm/examsheet/internal/logging"
	"github.com/JonMunkholm/examsheet/internal/storage/inmem"
	"github.com/JonMunkholm/examsheet/internal/storage/postgres"
	"github.com/JonMunkholm/examsheet/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Values in .env win over the process environment.
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration", "config", cfg.String())
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	service := core.NewService(store, core.Options{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWaitTime:   cfg.Upload.MaxWaitTime,
		UploadTimeout: cfg.Upload.Timeout,
	})
	server := web.NewServer(service, cfg)

	done := make(chan struct{})
	go func() {
		defer close(done)
		awaitSignal()
		drain(server, service, cfg.Server.ShutdownTimeout)
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		closeStore()
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}

func awaitSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("shutting down", "signal", sig.String())
}

// drain lets running ingestions finish before closing the listener, all
// within timeout. An ingestion cut off by process exit never commits.
func drain(server *web.Server, service *core.Service, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if active := service.UploadStatus().Active; active > 0 {
		slog.Info("waiting for ingestions", "active", active)
		if err := service.WaitForUploads(ctx); err != nil {
			slog.Warn("ingestions still running at shutdown", "error", err)
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openStore connects the configured store and returns its close func.
func openStore(ctx context.Context, cfg *config.Config) (core.Store, func(), error) {
	if !cfg.Storage.UsesPostgres() {
		store := inmem.New()
		if cfg.Storage.SeedFile != "" {
			if err := store.LoadFile(cfg.Storage.SeedFile); err != nil {
				return nil, nil, fmt.Errorf("seed memory store: %w", err)
			}
			slog.Info("memory store seeded", "file", cfg.Storage.SeedFile)
		}
		slog.Warn("using in-memory store; results are lost on restart")
		return store, func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return postgres.New(pool), pool.Close, nil
}
