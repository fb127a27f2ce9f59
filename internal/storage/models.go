// Package storage provides the pattern-library store's database models and
// repositories.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// PatternType mirrors patterns.Type as the row-level column type; the
// repository converts between the two.
type PatternType string

const (
	PatternTypeGeographicEntity     PatternType = "geographic_entity"
	PatternTypeMarketTerm           PatternType = "market_term"
	PatternTypeDatePattern          PatternType = "date_pattern"
	PatternTypeReportType           PatternType = "report_type"
	PatternTypeReportTypeDictionary PatternType = "report_type_dictionary"
)

// PatternSubtype mirrors patterns.Subtype.
type PatternSubtype string

const (
	PatternSubtypePrimaryKeyword   PatternSubtype = "primary_keyword"
	PatternSubtypeSecondaryKeyword PatternSubtype = "secondary_keyword"
	PatternSubtypeSeparator        PatternSubtype = "separator"
	PatternSubtypeBoundaryMarker   PatternSubtype = "boundary_marker"
)

// PatternFormatType mirrors patterns.FormatType.
type PatternFormatType string

const (
	PatternFormatTerminalType    PatternFormatType = "terminal_type"
	PatternFormatEmbeddedType    PatternFormatType = "embedded_type"
	PatternFormatPrefixType      PatternFormatType = "prefix_type"
	PatternFormatCompoundType    PatternFormatType = "compound_type"
	PatternFormatAcronymEmbedded PatternFormatType = "acronym_embedded"
)

// PatternRow is the row shape of the patterns table. Aliases and
// ArchivedAliases are stored as JSON-encoded text columns so the same
// schema works unchanged across the sqlite and postgres drivers; a native
// JSONB/array column would need per-driver scan logic this repository
// would rather not carry.
type PatternRow struct {
	ID            uuid.UUID
	Type          PatternType
	Term          string
	AliasesJSON   string
	ArchivedJSON  string
	PatternSource string
	Priority      int
	Active        bool
	Subtype       PatternSubtype
	FormatType    PatternFormatType
	SuccessCount  int64
	FailureCount  int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
