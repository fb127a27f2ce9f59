package pipeline

import (
	"regexp"
	"strings"

	"github.com/titlelex/titlelex/internal/patterns"
)

var (
	wordChunkRe = regexp.MustCompile(`\S+`)
	acronymRe   = regexp.MustCompile(`^[A-Z]{2,6}$`)
	marketWordRe = regexp.MustCompile(`(?i)\bmarket\b`)
)

// chunk is one whitespace-delimited token of a title, with its byte span
// and its word core stripped of leading/trailing punctuation.
type chunk struct {
	span
	Text string
	Core string
}

func chunksFrom(s string, offset int) []chunk {
	locs := wordChunkRe.FindAllStringIndex(s, -1)
	out := make([]chunk, 0, len(locs))
	for _, loc := range locs {
		text := s[loc[0]:loc[1]]
		out = append(out, chunk{
			span: span{Start: offset + loc[0], End: offset + loc[1]},
			Text: text,
			Core: strings.Trim(text, ",.;:"),
		})
	}
	return out
}

// extractReportType reconstructs the report-type phrase from dictionary
// keywords and removes its span from title, dispatching to the standard or
// market-aware workflow depending on marketType.
func extractReportType(lib *patterns.Library, title string, marketType MarketType) (string, ReportTypeExtraction, StageMeta) {
	if marketType == MarketStandard {
		return extractStandardReportType(lib, title)
	}
	return extractMarketAwareReportType(lib, title, marketType)
}

func isSecondaryKeyword(lib *patterns.Library, word string) bool {
	return lib.IsDictionaryTerm(word, patterns.SubtypeSecondaryKeyword)
}

func isKnownKeyword(lib *patterns.Library, word string) bool {
	return lib.IsDictionaryTerm(word, patterns.SubtypePrimaryKeyword, patterns.SubtypeSecondaryKeyword)
}

var camelCaseRe = regexp.MustCompile(`^[A-Za-z]*[a-z][A-Z][A-Za-z]*$`)

// isTechnicalCompound flags a camel-cased or 2-6 letter all-caps token
// that isn't itself a dictionary keyword, per the diagnostic
// technical_compound tag (§4.D.4). It never changes extraction.
func isTechnicalCompound(lib *patterns.Library, word string) bool {
	if isKnownKeyword(lib, word) {
		return false
	}
	if camelCaseRe.MatchString(word) {
		return true
	}
	return len(word) >= 2 && acronymRe.MatchString(word)
}

// regionTouchesKeywords flags the region_adjacent diagnostic: the
// keyword chain's first or last span sits directly against a
// geographic_entity match in the original title (nothing but whitespace
// between them), meaning stage E will claim text immediately touching the
// report-type phrase. Non-authoritative: it never changes extraction.
func regionTouchesKeywords(lib *patterns.Library, title string, spans [][2]int) bool {
	if len(spans) == 0 {
		return false
	}
	first, last := spans[0], spans[len(spans)-1]

	for _, c := range lib.Patterns(patterns.TypeGeographicEntity) {
		for _, m := range patterns.FindAllNonOverlapping(c.Regex, title) {
			if touchesGap(title, m.End, first[0]) || touchesGap(title, last[1], m.Start) {
				return true
			}
		}
	}
	return false
}

// touchesGap reports whether the byte range [a, b) of title contains
// nothing but whitespace, i.e. two spans on either side of it are adjacent
// with no intervening word.
func touchesGap(title string, a, b int) bool {
	if a < 0 || b < 0 || a > b || b > len(title) {
		return false
	}
	return strings.TrimSpace(title[a:b]) == ""
}

func isPureSeparator(core string) bool {
	switch strings.ToLower(core) {
	case "and", "&", "-", "":
		return true
	default:
		return false
	}
}

// extractStandardReportType implements the §4.D.2 workflow: anchor on the
// first "Market" occurrence, walk forward through a contiguous chain of
// keyword-or-separator tokens, and reconstruct by concatenating the
// keywords with single spaces.
func extractStandardReportType(lib *patterns.Library, title string) (string, ReportTypeExtraction, StageMeta) {
	loc := marketWordRe.FindStringIndex(title)
	if loc == nil {
		return title, ReportTypeExtraction{}, StageMeta{
			Confidence: 0,
			Notes:      "no primary keyword found",
		}
	}

	chunks := chunksFrom(title[loc[0]:], loc[0])
	if len(chunks) == 0 {
		return title, ReportTypeExtraction{}, StageMeta{Confidence: 0, Notes: "no tokens after market"}
	}

	var (
		keywords          []string
		positions         [][2]int
		seps              []string
		acronym           string
		technicalCompound bool
		lastEnd           = chunks[0].End
		hadComma          = strings.HasSuffix(chunks[0].Text, ",")
	)
	keywords = append(keywords, chunks[0].Core)
	positions = append(positions, [2]int{chunks[0].Start, chunks[0].End})

	for _, ch := range chunks[1:] {
		if isPureSeparator(ch.Core) {
			seps = append(seps, ch.Core)
			lastEnd = ch.End
			hadComma = strings.HasSuffix(ch.Text, ",")
			continue
		}

		if hadComma && acronymRe.MatchString(ch.Core) && acronym == "" {
			acronym = ch.Core
			lastEnd = ch.End
			hadComma = strings.HasSuffix(ch.Text, ",")
			continue
		}

		if isSecondaryKeyword(lib, ch.Core) {
			keywords = append(keywords, ch.Core)
			positions = append(positions, [2]int{ch.Start, ch.End})
			lastEnd = ch.End
			hadComma = strings.HasSuffix(ch.Text, ",")
			continue
		}

		// Gap: a non-dictionary, non-separator word ends the chain.
		technicalCompound = isTechnicalCompound(lib, ch.Core)
		break
	}

	removed := []span{{Start: loc[0], End: lastEnd}}
	out := removeSpans(title, removed)
	if acronym != "" {
		out = strings.TrimSpace(out) + " (" + acronym + ")"
	}
	out = normalizeSpacing(out)

	return out, ReportTypeExtraction{
		ReportType:        strings.Join(keywords, " "),
		KeywordsFound:     keywords,
		KeywordPositions:  positions,
		Separators:        seps,
		ExtractedAcronym:  acronym,
		TechnicalCompound: technicalCompound,
		RegionAdjacent:    regionTouchesKeywords(lib, title, positions),
	}, StageMeta{
		Confidence:     1,
		MatchedPattern: "market_anchor",
		Notes:          "standard report-type reconstruction",
	}
}

// extractMarketAwareReportType implements the §4.D.3 workflow for
// market_for/market_in/market_by titles.
func extractMarketAwareReportType(lib *patterns.Library, title string, marketType MarketType) (string, ReportTypeExtraction, StageMeta) {
	q := marketType.Qualifier()
	phraseRe := regexp.MustCompile(`(?i)\bmarket\s+` + q + `\b`)
	loc := phraseRe.FindStringIndex(title)
	if loc == nil {
		return title, ReportTypeExtraction{}, StageMeta{
			Confidence: 0,
			Notes:      "market-aware phrase not found",
		}
	}

	marketStart := loc[0]
	qEnd := loc[1]

	rest := chunksFrom(title[qEnd:], qEnd)

	terminator := -1
	for i, ch := range rest {
		if isSecondaryKeyword(lib, ch.Core) {
			terminator = i
			break
		}
	}

	var xEnd int
	if terminator == -1 {
		xEnd = len(title)
	} else {
		xEnd = rest[terminator].Start
	}
	x := strings.TrimSpace(title[qEnd:xEnd])

	var (
		keywords          []string
		positions         [][2]int
		chainEnd          = xEnd
		technicalCompound bool
	)
	if terminator != -1 {
		suffixChunks := rest[terminator:]
		chainEnd = suffixChunks[0].End
		keywords = append(keywords, suffixChunks[0].Core)
		positions = append(positions, [2]int{suffixChunks[0].Start, suffixChunks[0].End})
		hadComma := strings.HasSuffix(suffixChunks[0].Text, ",")
		for _, ch := range suffixChunks[1:] {
			if isPureSeparator(ch.Core) {
				chainEnd = ch.End
				hadComma = strings.HasSuffix(ch.Text, ",")
				continue
			}
			if isSecondaryKeyword(lib, ch.Core) {
				keywords = append(keywords, ch.Core)
				positions = append(positions, [2]int{ch.Start, ch.End})
				chainEnd = ch.End
				hadComma = strings.HasSuffix(ch.Text, ",")
				continue
			}
			_ = hadComma
			technicalCompound = isTechnicalCompound(lib, ch.Core)
			break
		}
	}

	reportType := "Market"
	if len(keywords) > 0 {
		reportType = "Market " + strings.Join(keywords, " ")
	}

	prefix := strings.TrimSpace(title[:marketStart])
	trailing := title[chainEnd:]
	out := prefix
	if out != "" {
		out += " "
	}
	out += q + " " + x + trailing
	out = normalizeSpacing(out)

	return out, ReportTypeExtraction{
		ReportType:             reportType,
		KeywordsFound:          keywords,
		KeywordPositions:       positions,
		MarketBoundaryDetected: true,
		TechnicalCompound:      technicalCompound,
		RegionAdjacent:         regionTouchesKeywords(lib, title, positions),
	}, StageMeta{
		Confidence:     1,
		MatchedPattern: "market_" + q,
		Notes:          "market-aware report-type reconstruction",
	}
}
