// Package main provides the titlelex API server entrypoint.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/titlelex/titlelex/internal/config"
	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/patterns"
	"github.com/titlelex/titlelex/internal/storage"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "titlelex-api",
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Msg("starting titlelex API")

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open pattern store")
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := storage.Migrate(ctx, db); err != nil {
		logger.Error().Err(err).Msg("failed to migrate pattern store")
		os.Exit(1)
	}

	repo := storage.NewPatternRepository(db)
	lib, err := patterns.Load(ctx, repo, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load pattern library")
		os.Exit(1)
	}

	router, writer, resultCache := NewRouter(logger, cfg, db, lib)
	defer writer.Stop()
	defer func() {
		if err := resultCache.Close(); err != nil {
			logger.Warn().Err(err).Msg("cache close failed")
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server error")
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	logger.Info().Msg("server stopped")
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.DatabaseDSN()

	var driver string
	switch cfg.Database.Driver {
	case "sqlite":
		driver = "sqlite3"
	case "postgres":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	switch cfg.Database.Driver {
	case "sqlite":
		db.SetMaxOpenConns(cfg.Database.SQLite.MaxOpenConns)
	case "postgres":
		db.SetMaxOpenConns(cfg.Database.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.Postgres.ConnMaxLifetime)
	}

	return db, nil
}
