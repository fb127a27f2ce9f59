package pipeline

import (
	"regexp"
	"sort"

	"github.com/titlelex/titlelex/internal/patterns"
)

// regionJoinRe finds the separator words/symbols that chain two adjacent
// region mentions into one group, e.g. "U.S. and Canada" or "UK & Ireland".
var regionJoinRe = regexp.MustCompile(`(?i)^\s*(,|and|&|\+|plus)\s*$`)

// extractGeo finds every geographic_entity match in title, resolves
// overlaps by keeping the longer match (ties go to the lower-priority, i.e.
// earlier-tried, pattern), merges adjacent region mentions joined by a
// connector word into a single group, and removes every matched span.
func extractGeo(lib *patterns.Library, title string) (string, GeoExtraction, StageMeta) {
	type hit struct {
		patterns.Match
		priority int
		term     string
	}
	var hits []hit

	for priority, c := range lib.Patterns(patterns.TypeGeographicEntity) {
		for _, m := range patterns.FindAllNonOverlapping(c.Regex, title) {
			if hyphenAdjacent(title, m) {
				continue
			}
			hits = append(hits, hit{Match: m, priority: priority, term: c.Pattern.Term})
		}
	}

	if len(hits) == 0 {
		return title, GeoExtraction{}, StageMeta{Confidence: 0, Notes: "no geographic entity matched"}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Start != hits[j].Start {
			return hits[i].Start < hits[j].Start
		}
		li, lj := hits[i].End-hits[i].Start, hits[j].End-hits[j].Start
		if li != lj {
			return li > lj
		}
		return hits[i].priority < hits[j].priority
	})

	resolved := make([]hit, 0, len(hits))
	for _, h := range hits {
		if len(resolved) > 0 {
			last := resolved[len(resolved)-1]
			if h.Start < last.End {
				// Overlaps the previous kept match; keep the longer one,
				// or on equal length the lower-priority one.
				if hl, ll := h.End-h.Start, last.End-last.Start; hl > ll || (hl == ll && h.priority < last.priority) {
					resolved[len(resolved)-1] = h
				}
				continue
			}
		}
		resolved = append(resolved, h)
	}

	found := make([]geoMatch, 0, len(resolved))
	for _, h := range resolved {
		found = append(found, geoMatch{Match: h.Match, Term: h.term})
	}

	groups := groupAdjacentRegions(title, found)

	spans := make([]span, 0, len(groups))
	regions := make([]string, 0, len(groups))
	for _, g := range groups {
		spans = append(spans, span{Start: g.Start, End: g.End})
		regions = append(regions, g.members...)
	}

	out := removeSpans(title, spans)
	out = normalizeSpacing(out)

	return out, GeoExtraction{Regions: regions}, StageMeta{
		Confidence: 1,
		Notes:      "matched geographic entities",
	}
}

// geoMatch pairs a raw match span with the canonical library term it
// matched under, so output regions carry the term, never the matched
// alias or surface form.
type geoMatch struct {
	patterns.Match
	Term string
}

type regionGroup struct {
	span
	members []string
}

// groupAdjacentRegions merges consecutive region matches that are only
// separated by a connector word/symbol (",", "and", "&", "+", "plus") into
// one removable span, so "U.S. and Canada" disappears as a unit instead of
// leaving a dangling "and".
func groupAdjacentRegions(title string, matches []geoMatch) []regionGroup {
	if len(matches) == 0 {
		return nil
	}

	var groups []regionGroup
	cur := regionGroup{span: span{Start: matches[0].Start, End: matches[0].End}, members: []string{matches[0].Term}}

	for _, m := range matches[1:] {
		between := title[cur.End:m.Start]
		if regionJoinRe.MatchString(between) {
			cur.End = m.End
			cur.members = append(cur.members, m.Term)
			continue
		}
		groups = append(groups, cur)
		cur = regionGroup{span: span{Start: m.Start, End: m.End}, members: []string{m.Term}}
	}
	groups = append(groups, cur)
	return groups
}

// hyphenAdjacent rejects a match immediately preceded or followed by a
// hyphen, which signals the matched text is part of a larger hyphenated
// word (e.g. "Asia-Pacific-wide") rather than a standalone region mention.
func hyphenAdjacent(title string, m patterns.Match) bool {
	if m.Start > 0 && title[m.Start-1] == '-' {
		return true
	}
	if m.End < len(title) && title[m.End] == '-' {
		return true
	}
	return false
}
