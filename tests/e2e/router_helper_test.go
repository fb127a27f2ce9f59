package e2e

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/titlelex/titlelex/cmd/titlelex-api/handlers"
	"github.com/titlelex/titlelex/internal/cache"
	"github.com/titlelex/titlelex/internal/patterns"
	"github.com/titlelex/titlelex/internal/pipeline"
	"github.com/titlelex/titlelex/internal/storage"
	"github.com/titlelex/titlelex/internal/telemetry"
)

// pipelineOptions returns the default stage timeout used across these
// scenarios; zero disables the per-stage wall-clock bound entirely.
func pipelineOptions() pipeline.Options {
	return pipeline.Options{}
}

// newTestRouter wires the same /v1/parse route cmd/titlelex-api/router.go
// builds, minus the middleware stack router.go installs in front of it
// (request ID, logging, recovery, CORS, timeout).
func newTestRouter(t *testing.T, db *sql.DB, lib *patterns.Library) http.Handler {
	t.Helper()

	repo := storage.NewPatternRepository(db)
	writer := telemetry.NewWriter(nil, repo, telemetry.DefaultConfig())
	t.Cleanup(writer.Stop)

	pipe := pipeline.New(lib, nil, writer, pipelineOptions())
	resultCache := cache.NewMemoryClient(100)
	parseHandler := handlers.NewParseHandler(nil, pipe, resultCache, time.Minute)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", parseHandler.Parse)
	})
	return r
}
