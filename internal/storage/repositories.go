package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/titlelex/titlelex/internal/patterns"
)

// Common errors.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflict")
)

// DB represents a database connection interface, satisfied by *sql.DB and
// *sql.Tx alike.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// PatternRepository is the sole persistence seam for the pattern library:
// the runtime read path (patterns.Load via ListActive) and the offline
// curation path (patterns.Curator via Get/Update/Create/ListAll) both go
// through it.
type PatternRepository struct {
	db DB
}

// NewPatternRepository creates a new pattern repository.
func NewPatternRepository(db DB) *PatternRepository {
	return &PatternRepository{db: db}
}

const patternColumns = `id, type, term, aliases, archived_aliases, pattern_source,
	priority, active, subtype, format_type, success_count, failure_count,
	created_at, updated_at`

// ListActive returns every active pattern of the given type.
func (r *PatternRepository) ListActive(ctx context.Context, t patterns.Type) ([]patterns.Pattern, error) {
	query := `SELECT ` + patternColumns + ` FROM patterns WHERE type = $1 AND active = true`
	return r.query(ctx, query, string(t))
}

// ListAll returns every pattern of the given type, active or archived.
func (r *PatternRepository) ListAll(ctx context.Context, t patterns.Type) ([]patterns.Pattern, error) {
	query := `SELECT ` + patternColumns + ` FROM patterns WHERE type = $1`
	return r.query(ctx, query, string(t))
}

func (r *PatternRepository) query(ctx context.Context, query string, args ...interface{}) ([]patterns.Pattern, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()

	var out []patterns.Pattern
	for rows.Next() {
		row, err := scanPatternRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pattern row: %w", err)
		}
		p, err := rowToPattern(row)
		if err != nil {
			return nil, fmt.Errorf("decode pattern %s/%s: %w", row.Type, row.Term, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get retrieves a single pattern by (type, term).
func (r *PatternRepository) Get(ctx context.Context, t patterns.Type, term string) (patterns.Pattern, error) {
	query := `SELECT ` + patternColumns + ` FROM patterns WHERE type = $1 AND term = $2`
	row := r.db.QueryRowContext(ctx, query, string(t), term)

	pr, err := scanPatternRowOne(row)
	if errors.Is(err, sql.ErrNoRows) {
		return patterns.Pattern{}, ErrNotFound
	}
	if err != nil {
		return patterns.Pattern{}, fmt.Errorf("get pattern %s/%s: %w", t, term, err)
	}
	return rowToPattern(pr)
}

// Create inserts a new pattern. It fails with ErrConflict if (type, term)
// already exists.
func (r *PatternRepository) Create(ctx context.Context, p patterns.Pattern) error {
	row, err := patternToRow(p)
	if err != nil {
		return fmt.Errorf("encode pattern %s/%s: %w", p.Type, p.Term, err)
	}
	row.ID = uuid.New()
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt

	query := `
		INSERT INTO patterns (` + patternColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.ExecContext(ctx, query,
		row.ID, row.Type, row.Term, row.AliasesJSON, row.ArchivedJSON, row.PatternSource,
		row.Priority, row.Active, row.Subtype, row.FormatType, row.SuccessCount, row.FailureCount,
		row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return nil
}

// Update overwrites an existing pattern's mutable fields, keyed by
// (type, term).
func (r *PatternRepository) Update(ctx context.Context, p patterns.Pattern) error {
	row, err := patternToRow(p)
	if err != nil {
		return fmt.Errorf("encode pattern %s/%s: %w", p.Type, p.Term, err)
	}
	row.UpdatedAt = time.Now()

	query := `
		UPDATE patterns SET
			aliases = $3, archived_aliases = $4, pattern_source = $5, priority = $6,
			active = $7, subtype = $8, format_type = $9, success_count = $10,
			failure_count = $11, updated_at = $12
		WHERE type = $1 AND term = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		row.Type, row.Term, row.AliasesJSON, row.ArchivedJSON, row.PatternSource, row.Priority,
		row.Active, row.Subtype, row.FormatType, row.SuccessCount, row.FailureCount, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pattern %s/%s: %w", p.Type, p.Term, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Archive flips a pattern's Active flag off without deleting it, so its
// success/failure history and aliases survive for later curation.
func (r *PatternRepository) Archive(ctx context.Context, t patterns.Type, term string) error {
	query := `UPDATE patterns SET active = false, updated_at = $3 WHERE type = $1 AND term = $2`
	res, err := r.db.ExecContext(ctx, query, string(t), term, time.Now())
	if err != nil {
		return fmt.Errorf("archive pattern %s/%s: %w", t, term, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordOutcome increments a pattern's success or failure counter. Best
// effort: callers treat counter drift under concurrent batch runs as
// acceptable, the same way the pattern library's success_count/
// failure_count fields are documented as approximate.
func (r *PatternRepository) RecordOutcome(ctx context.Context, t patterns.Type, term string, success bool) error {
	column := "failure_count"
	if success {
		column = "success_count"
	}
	query := fmt.Sprintf(`UPDATE patterns SET %s = %s + 1 WHERE type = $1 AND term = $2`, column, column)
	_, err := r.db.ExecContext(ctx, query, string(t), term)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatternRow(rows *sql.Rows) (PatternRow, error) {
	return scanPatternRowOne(rows)
}

func scanPatternRowOne(s rowScanner) (PatternRow, error) {
	var row PatternRow
	err := s.Scan(
		&row.ID, &row.Type, &row.Term, &row.AliasesJSON, &row.ArchivedJSON, &row.PatternSource,
		&row.Priority, &row.Active, &row.Subtype, &row.FormatType, &row.SuccessCount, &row.FailureCount,
		&row.CreatedAt, &row.UpdatedAt,
	)
	return row, err
}

func rowToPattern(row PatternRow) (patterns.Pattern, error) {
	var aliases, archived []string
	if row.AliasesJSON != "" {
		if err := json.Unmarshal([]byte(row.AliasesJSON), &aliases); err != nil {
			return patterns.Pattern{}, fmt.Errorf("unmarshal aliases: %w", err)
		}
	}
	if row.ArchivedJSON != "" {
		if err := json.Unmarshal([]byte(row.ArchivedJSON), &archived); err != nil {
			return patterns.Pattern{}, fmt.Errorf("unmarshal archived_aliases: %w", err)
		}
	}

	return patterns.Pattern{
		Type:            patterns.Type(row.Type),
		Term:            row.Term,
		Aliases:         aliases,
		ArchivedAliases: archived,
		PatternSource:   row.PatternSource,
		Priority:        row.Priority,
		Active:          row.Active,
		Subtype:         patterns.Subtype(row.Subtype),
		FormatType:      patterns.FormatType(row.FormatType),
		SuccessCount:    row.SuccessCount,
		FailureCount:    row.FailureCount,
	}, nil
}

func patternToRow(p patterns.Pattern) (PatternRow, error) {
	aliasesJSON, err := json.Marshal(p.Aliases)
	if err != nil {
		return PatternRow{}, fmt.Errorf("marshal aliases: %w", err)
	}
	archivedJSON, err := json.Marshal(p.ArchivedAliases)
	if err != nil {
		return PatternRow{}, fmt.Errorf("marshal archived_aliases: %w", err)
	}

	return PatternRow{
		Type:          PatternType(p.Type),
		Term:          p.Term,
		AliasesJSON:   string(aliasesJSON),
		ArchivedJSON:  string(archivedJSON),
		PatternSource: p.PatternSource,
		Priority:      p.Priority,
		Active:        p.Active,
		Subtype:       PatternSubtype(p.Subtype),
		FormatType:    PatternFormatType(p.FormatType),
		SuccessCount:  p.SuccessCount,
		FailureCount:  p.FailureCount,
	}, nil
}
