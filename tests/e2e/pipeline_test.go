// Package e2e runs full parse scenarios against a real, seeded pattern
// library, both through the public pkg/titlelex facade and through the
// HTTP API, exercising the whole stack the way an external caller would.
package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"github.com/titlelex/titlelex/internal/storage"
	"github.com/titlelex/titlelex/pkg/titlelex"
)

// scenario mirrors one of the literal end-to-end examples: a title and the
// fields a complete, correctly-wired pipeline must produce for it.
type scenario struct {
	title      string
	dateRange  *string
	reportType string
	regions    []string
	topic      string
	acronym    string
}

func strp(s string) *string { return &s }

func scenarios() []scenario {
	return []scenario{
		{
			title:      "APAC Personal Protective Equipment Market Analysis, 2024-2030",
			dateRange:  strp("2024-2030"),
			reportType: "Market Analysis",
			regions:    []string{"Asia-Pacific"},
			topic:      "Personal Protective Equipment",
		},
		{
			title:      "Carbon Black Market For Textile Fibers Growth Report, 2020",
			dateRange:  strp("2020"),
			reportType: "Market Growth Report",
			regions:    []string{},
			topic:      "Carbon Black for Textile Fibers",
		},
		{
			title:      "Sulfur, Arsine, and Mercury Remover Market in Oil & Gas Industry",
			dateRange:  nil,
			reportType: "Market Industry",
			regions:    []string{},
			topic:      "Sulfur, Arsine, and Mercury Remover in Oil & Gas",
		},
		{
			title:      "U.S. And Europe Digital Pathology Market Size, Share Report, 2030",
			dateRange:  strp("2030"),
			reportType: "Market Size Share Report",
			regions:    []string{"United States", "Europe"},
			topic:      "Digital Pathology",
		},
		{
			title:      "Directed Energy Weapons Market Size, DEW Industry Report, 2025",
			dateRange:  strp("2025"),
			reportType: "Market Size Industry Report",
			regions:    []string{},
			topic:      "Directed Energy Weapons (DEW)",
			acronym:    "DEW",
		},
		{
			title:      "De-identified Health Data Market Size, Industry Report, 2030",
			dateRange:  strp("2030"),
			reportType: "Market Size Industry Report",
			regions:    []string{},
			topic:      "De-identified Health Data",
		},
	}
}

// newSeededLibrary builds a real pattern library off an in-memory sqlite3
// store seeded with the default patterns: the Migrate-then-Load startup path
// cmd/titlelex-api/main.go takes against a real database, plus a Seed step
// that main.go does not run.
func newSeededLibrary(t *testing.T) (*titlelex.Library, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, storage.Migrate(ctx, db))

	repo := storage.NewPatternRepository(db)
	_, err = storage.Seed(ctx, repo)
	require.NoError(t, err)

	lib, err := titlelex.LoadLibrary(ctx, repo, nil)
	require.NoError(t, err)
	return lib, db
}

func TestEndToEndScenariosThroughPublicFacade(t *testing.T) {
	lib, _ := newSeededLibrary(t)
	parser := titlelex.NewParser(lib, nil, nil, pipelineOptions())

	for _, sc := range scenarios() {
		sc := sc
		t.Run(sc.title, func(t *testing.T) {
			out, err := parser.Parse(context.Background(), sc.title)
			require.NoError(t, err)

			require.Equal(t, sc.reportType, out.ExtractedReportType)
			require.Equal(t, sc.regions, out.ExtractedRegions)
			require.Equal(t, sc.topic, out.Topic)

			if sc.dateRange == nil {
				require.Nil(t, out.ExtractedDateRange)
			} else {
				require.NotNil(t, out.ExtractedDateRange)
				require.Equal(t, *sc.dateRange, *out.ExtractedDateRange)
			}

			if sc.acronym != "" {
				require.NotNil(t, out.ExtractedAcronym)
				require.Equal(t, sc.acronym, *out.ExtractedAcronym)
			}
		})
	}
}

// TestEndToEndScenariosThroughHTTPAPI drives the same scenarios through
// POST /v1/parse, verifying the wire contract matches the facade's
// in-process result.
func TestEndToEndScenariosThroughHTTPAPI(t *testing.T) {
	lib, db := newSeededLibrary(t)
	handler := newTestRouter(t, db, lib)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	for _, sc := range scenarios() {
		sc := sc
		t.Run(sc.title, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"title": sc.title})
			require.NoError(t, err)

			resp, err := http.Post(srv.URL+"/v1/parse", "application/json", bytes.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var out struct {
				ExtractedReportType string   `json:"extracted_report_type"`
				ExtractedRegions    []string `json:"extracted_regions"`
				Topic               string   `json:"topic"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

			require.Equal(t, sc.reportType, out.ExtractedReportType)
			require.Equal(t, sc.regions, out.ExtractedRegions)
			require.Equal(t, sc.topic, out.Topic)
		})
	}
}

// TestRepeatedParseIsDeterministic asserts the determinism invariant: the
// same title against the same library yields byte-identical output.
func TestRepeatedParseIsDeterministic(t *testing.T) {
	lib, _ := newSeededLibrary(t)
	parser := titlelex.NewParser(lib, nil, nil, pipelineOptions())

	const title = "U.S. And Europe Digital Pathology Market Size, Share Report, 2030"

	first, err := parser.Parse(context.Background(), title)
	require.NoError(t, err)
	second, err := parser.Parse(context.Background(), title)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, string(firstJSON), string(secondJSON))
}
