package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/titlelex/titlelex/internal/patterns"
)

// patternsDDL creates the patterns table using only column types and
// constraints both the sqlite3 and lib/pq drivers accept unmodified, so
// Migrate needs no per-driver branch.
const patternsDDL = `
CREATE TABLE IF NOT EXISTS patterns (
	id               TEXT PRIMARY KEY,
	type             TEXT NOT NULL,
	term             TEXT NOT NULL,
	aliases          TEXT NOT NULL DEFAULT '[]',
	archived_aliases TEXT NOT NULL DEFAULT '[]',
	pattern_source   TEXT NOT NULL DEFAULT '',
	priority         INTEGER NOT NULL DEFAULT 0,
	active           BOOLEAN NOT NULL DEFAULT true,
	subtype          TEXT NOT NULL DEFAULT '',
	format_type      TEXT NOT NULL DEFAULT '',
	success_count    BIGINT NOT NULL DEFAULT 0,
	failure_count    BIGINT NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL,
	UNIQUE(type, term)
);
`

const patternsIndexDDL = `
CREATE INDEX IF NOT EXISTS idx_patterns_type ON patterns (type);
CREATE INDEX IF NOT EXISTS idx_patterns_type_active ON patterns (type, active);
CREATE INDEX IF NOT EXISTS idx_patterns_priority ON patterns (type, priority);
`

// Migrate applies the pattern store schema. It is idempotent: running it
// against an already-migrated store is a no-op.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.ExecContext(ctx, patternsDDL); err != nil {
		return fmt.Errorf("create patterns table: %w", err)
	}
	for _, stmt := range splitStatements(patternsIndexDDL) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create pattern index: %w", err)
		}
	}
	return nil
}

// Seed inserts patterns.Defaults() into repo, skipping any (type, term)
// that already exists rather than failing the whole run, so Seed is safe
// to run again after a curator has since edited a default entry.
func Seed(ctx context.Context, repo *PatternRepository) (int, error) {
	created := 0
	for _, p := range patterns.Defaults() {
		err := repo.Create(ctx, p)
		if err == nil {
			created++
			continue
		}
		if errors.Is(err, ErrConflict) {
			continue
		}
		return created, fmt.Errorf("seed pattern %s/%s: %w", p.Type, p.Term, err)
	}
	return created, nil
}

func splitStatements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";") {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
