// Package main provides the API router setup.
package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/titlelex/titlelex/cmd/titlelex-api/handlers"
	"github.com/titlelex/titlelex/cmd/titlelex-api/middleware"
	"github.com/titlelex/titlelex/internal/cache"
	"github.com/titlelex/titlelex/internal/config"
	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/patterns"
	"github.com/titlelex/titlelex/internal/pipeline"
	"github.com/titlelex/titlelex/internal/storage"
	"github.com/titlelex/titlelex/internal/telemetry"
)

// newResultCache builds the result cache backend from configuration,
// falling back to an in-memory cache (and logging why) if Redis can't be
// reached — a cold cache is a performance hit, never a correctness one.
func newResultCache(cfg *config.Config, logger *observability.Logger) cache.Client {
	if cfg.Cache.Driver != "redis" {
		return cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	client, err := cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		PoolSize: cfg.Cache.Redis.PoolSize,
	})
	if err != nil {
		if logger != nil {
			logger.Warn().Err(err).Msg("redis cache unavailable, falling back to in-memory cache")
		}
		return cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}
	return client
}

// NewRouter creates the API router with all routes configured. The
// returned telemetry.Writer must be stopped and the returned cache.Client
// closed by the caller on shutdown.
func NewRouter(logger *observability.Logger, cfg *config.Config, db *sql.DB, lib *patterns.Library) (http.Handler, *telemetry.Writer, cache.Client) {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"titlelex"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	repo := storage.NewPatternRepository(db)
	writer := telemetry.NewWriter(logger, repo, telemetry.DefaultConfig())

	pipe := pipeline.New(lib, logger, writer, pipeline.Options{StageTimeout: cfg.Pipeline.StageTimeout})
	resultCache := newResultCache(cfg, logger)
	parseHandler := handlers.NewParseHandler(logger, pipe, resultCache, cfg.Cache.TTL)

	patternsHandler := handlers.NewPatternsHandler(logger, repo)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", parseHandler.Parse)
		r.Get("/patterns", patternsHandler.List)
		r.Post("/patterns", patternsHandler.Create)
	})

	return r, writer, resultCache
}
