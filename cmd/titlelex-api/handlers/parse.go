// Package handlers provides HTTP handlers for the titlelex API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/titlelex/titlelex/internal/cache"
	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/pipeline"
)

// cacheGeneration is bumped whenever the pattern library's seed data
// changes shape in a way that would make a cached result stale. Patterns
// loaded from the store don't carry their own version yet, so this is a
// single build-time constant rather than something read off the library.
const cacheGeneration = int64(1)

// ParseHandler handles title-parsing requests.
type ParseHandler struct {
	logger *observability.Logger
	pipe   *pipeline.Pipeline
	cache  cache.Client
	ttl    time.Duration
}

// NewParseHandler creates a new parse handler. cache may be nil, in which
// case every request runs the pipeline fresh.
func NewParseHandler(logger *observability.Logger, pipe *pipeline.Pipeline, cacheClient cache.Client, ttl time.Duration) *ParseHandler {
	return &ParseHandler{logger: logger, pipe: pipe, cache: cacheClient, ttl: ttl}
}

// ParseRequest is the body of POST /v1/parse.
type ParseRequest struct {
	Title string `json:"title"`
	Trace bool   `json:"trace,omitempty"`
}

// Parse handles POST /v1/parse.
func (h *ParseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Title == "" {
		h.writeError(w, http.StatusBadRequest, "title is required", "")
		return
	}

	ctx := r.Context()

	if req.Trace {
		trace, err := h.pipe.Trace(ctx, req.Title)
		if err != nil {
			h.writeError(w, http.StatusServiceUnavailable, "parse canceled", err.Error())
			return
		}
		h.writeJSON(w, http.StatusOK, trace)
		return
	}

	key := cache.ParseResultKey(req.Title, cacheGeneration)
	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, key); err == nil {
			var out pipeline.Output
			if jsonErr := json.Unmarshal(cached, &out); jsonErr == nil {
				w.Header().Set("X-Cache", "hit")
				h.writeJSON(w, http.StatusOK, &out)
				return
			}
		}
	}

	out, err := h.pipe.Run(ctx, req.Title)
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "parse canceled", err.Error())
		return
	}

	if h.cache != nil {
		if encoded, jsonErr := json.Marshal(out); jsonErr == nil {
			if err := h.cache.Set(ctx, key, encoded, h.ttl); err != nil && h.logger != nil {
				h.logger.Warn().Err(err).Msg("cache set failed")
			}
		}
	}

	h.writeJSON(w, http.StatusOK, out)
}

func (h *ParseHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && h.logger != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}

func (h *ParseHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	_ = json.NewEncoder(w).Encode(resp)
}
