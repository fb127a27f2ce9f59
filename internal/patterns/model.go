// Package patterns implements the Pattern Library: typed, prioritized regex
// patterns loaded once at startup and exposed read-only to the pipeline
// stages.
package patterns

// Type identifies the kind of pattern a record belongs to. Priority and
// (type, term) uniqueness are scoped within a Type; across types priority
// is meaningless.
type Type string

const (
	TypeGeographicEntity   Type = "geographic_entity"
	TypeMarketTerm         Type = "market_term"
	TypeDatePattern        Type = "date_pattern"
	TypeReportType         Type = "report_type"
	TypeReportTypeDictionary Type = "report_type_dictionary"
)

// Subtype classifies report_type_dictionary entries.
type Subtype string

const (
	SubtypePrimaryKeyword   Subtype = "primary_keyword"
	SubtypeSecondaryKeyword Subtype = "secondary_keyword"
	SubtypeSeparator        Subtype = "separator"
	SubtypeBoundaryMarker   Subtype = "boundary_marker"
)

// FormatType describes the shape of a report_type pattern.
type FormatType string

const (
	FormatTerminalType    FormatType = "terminal_type"
	FormatEmbeddedType    FormatType = "embedded_type"
	FormatPrefixType      FormatType = "prefix_type"
	FormatCompoundType    FormatType = "compound_type"
	FormatAcronymEmbedded FormatType = "acronym_embedded"
)

// Pattern is a single library entry, identified by (Type, Term).
type Pattern struct {
	Type            Type
	Term            string
	Aliases         []string
	ArchivedAliases []string
	// PatternSource is the regex source. When empty, the library
	// synthesizes one from Term and Aliases (see synthesize.go).
	PatternSource string
	Priority      int
	Active        bool
	Subtype       Subtype
	FormatType    FormatType
	SuccessCount  int64
	FailureCount  int64
}

// Key returns the (type, term) identity of the pattern.
func (p Pattern) Key() string {
	return string(p.Type) + "\x00" + p.Term
}

// hasAlias reports whether alias is present in Aliases or ArchivedAliases.
// An alias must never be in both at once (library invariant, checked at
// curation time by Curator.Quarantine).
func (p Pattern) hasAlias(alias string) bool {
	for _, a := range p.Aliases {
		if a == alias {
			return true
		}
	}
	for _, a := range p.ArchivedAliases {
		if a == alias {
			return true
		}
	}
	return false
}
