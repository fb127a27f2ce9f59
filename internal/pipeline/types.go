// Package pipeline implements the five-stage title parser: market
// classification, date extraction, report-type reconstruction, geographic
// detection, and topic normalization, run in that fixed order over a
// single title.
package pipeline

// StageMeta is the diagnostic envelope every stage attaches to its
// stage-specific payload.
type StageMeta struct {
	Confidence     float64
	MatchedPattern string
	Notes          string
}

// MarketType is the qualifier phrase a title contains, if any.
type MarketType string

const (
	MarketStandard MarketType = "standard"
	MarketFor      MarketType = "market_for"
	MarketIn       MarketType = "market_in"
	MarketBy       MarketType = "market_by"
)

// Qualifier returns the bare preposition word for a market-aware type, or
// "" for MarketStandard.
func (m MarketType) Qualifier() string {
	switch m {
	case MarketFor:
		return "for"
	case MarketIn:
		return "in"
	case MarketBy:
		return "by"
	default:
		return ""
	}
}

// MarketClassification is stage B's payload.
type MarketClassification struct {
	MarketType MarketType
}

// DateExtraction is stage C's payload.
type DateExtraction struct {
	Range          string
	RawMatch       string
	FormatType     string
	PreservedWords string
}

// ReportTypeExtraction is stage D's payload.
type ReportTypeExtraction struct {
	ReportType             string
	KeywordsFound          []string
	KeywordPositions       [][2]int
	Separators             []string
	MarketBoundaryDetected bool
	ExtractedAcronym       string
	TechnicalCompound      bool
	RegionAdjacent         bool
}

// GeoExtraction is stage E's payload.
type GeoExtraction struct {
	Regions []string
}

// TopicExtraction is stage F's payload.
type TopicExtraction struct {
	Topic           string
	NormalizedTopic string
}

// Output is the final record produced for one title.
type Output struct {
	OriginalTitle       string             `json:"original_title"`
	MarketType          MarketType         `json:"market_type"`
	ExtractedDateRange  *string            `json:"extracted_date_range"`
	ExtractedReportType string             `json:"extracted_report_type"`
	ExtractedRegions    []string           `json:"extracted_regions"`
	ExtractedAcronym    *string            `json:"extracted_acronym,omitempty"`
	Topic               string             `json:"topic"`
	NormalizedTopic     string             `json:"normalized_topic"`
	ConfidenceByStage   map[string]float64 `json:"confidence_by_stage"`
	Notes               []string           `json:"notes"`
}

// span is a half-open [Start, End) byte range into a title string, used
// throughout the pipeline so removal is always position-based rather than
// string-replace-first (a recurring word must not vanish from the wrong
// occurrence).
type span struct {
	Start, End int
}

func (s span) len() int { return s.End - s.Start }

// removeSpans deletes every span from s (spans must be sorted and
// non-overlapping) and returns the remainder.
func removeSpans(s string, spans []span) string {
	if len(spans) == 0 {
		return s
	}
	var b []byte
	last := 0
	for _, sp := range spans {
		if sp.Start < last {
			continue
		}
		b = append(b, s[last:sp.Start]...)
		last = sp.End
	}
	b = append(b, s[last:]...)
	return string(b)
}
