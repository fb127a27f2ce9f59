package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/patterns"
)

// PatternsHandler handles pattern-library curation requests.
type PatternsHandler struct {
	logger  *observability.Logger
	store   patterns.RepositoryStore
	curator *patterns.Curator
}

// NewPatternsHandler creates a new patterns handler.
func NewPatternsHandler(logger *observability.Logger, store patterns.RepositoryStore) *PatternsHandler {
	return &PatternsHandler{logger: logger, store: store, curator: patterns.NewCurator(store)}
}

// List handles GET /v1/patterns?type=<type>.
func (h *PatternsHandler) List(w http.ResponseWriter, r *http.Request) {
	t := patterns.Type(r.URL.Query().Get("type"))
	if t == "" {
		h.writeError(w, http.StatusBadRequest, "type query parameter is required", "")
		return
	}

	records, err := h.store.ListAll(r.Context(), t)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "list patterns failed", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// createPatternRequest is the body of POST /v1/patterns.
type createPatternRequest struct {
	Type          patterns.Type      `json:"type"`
	Term          string             `json:"term"`
	Aliases       []string           `json:"aliases,omitempty"`
	PatternSource string             `json:"pattern_source,omitempty"`
	Priority      int                `json:"priority"`
	Active        bool               `json:"active"`
	Subtype       patterns.Subtype   `json:"subtype,omitempty"`
	FormatType    patterns.FormatType `json:"format_type,omitempty"`
}

// Create handles POST /v1/patterns.
func (h *PatternsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Type == "" || req.Term == "" {
		h.writeError(w, http.StatusBadRequest, "type and term are required", "")
		return
	}

	p := patterns.Pattern{
		Type:          req.Type,
		Term:          req.Term,
		Aliases:       req.Aliases,
		PatternSource: req.PatternSource,
		Priority:      req.Priority,
		Active:        req.Active,
		Subtype:       req.Subtype,
		FormatType:    req.FormatType,
	}

	if err := h.store.Create(r.Context(), p); err != nil {
		h.writeError(w, http.StatusConflict, "create pattern failed", err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *PatternsHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && h.logger != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}

func (h *PatternsHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	_ = json.NewEncoder(w).Encode(resp)
}
