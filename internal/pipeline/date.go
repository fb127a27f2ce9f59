package pipeline

import (
	"regexp"
	"strings"

	"github.com/titlelex/titlelex/internal/patterns"
)

var (
	dateWrapperRe = regexp.MustCompile(`^[\[(]|[\])]$`)
	dateLeadRe    = regexp.MustCompile(`(?i)^,\s*`)
	datePrefixRe  = regexp.MustCompile(`(?i)^(FY|Fiscal Year|Q[1-4])\s+`)
)

// extractDate tries date patterns in priority order (ranges before bare
// years, per the library's own priority ordering) and removes the first
// match from title. A match inside a parenthetical group triggers the
// rescue: non-date content on either side of the date within that group is
// re-appended to the title instead of being discarded with the parens.
func extractDate(lib *patterns.Library, title string) (string, DateExtraction, StageMeta) {
	for _, c := range lib.Patterns(patterns.TypeDatePattern) {
		m, ok := patterns.FindFirst(c.Regex, title)
		if !ok {
			continue
		}

		rawMatch := m.Text
		rangeValue := cleanDateValue(rawMatch)

		var preserved string
		var out string

		if open, close, ok := enclosingParens(title, m.Start, m.End); ok {
			before := strings.TrimSpace(title[open+1 : m.Start])
			after := strings.TrimSpace(title[m.End:close])
			preserved = strings.TrimSpace(strings.TrimSpace(before + " " + after))

			out = title[:open] + title[close+1:]
			if preserved != "" {
				out = strings.TrimSpace(out) + " " + preserved
			}
		} else {
			out = removeSpans(title, []span{{Start: m.Start, End: m.End}})
		}

		out = normalizeSpacing(out)

		return out, DateExtraction{
			Range:          rangeValue,
			RawMatch:       rawMatch,
			FormatType:     c.Pattern.Term,
			PreservedWords: preserved,
		}, StageMeta{
			Confidence:     1,
			MatchedPattern: c.Pattern.Term,
			Notes:          "matched date pattern " + c.Pattern.Term,
		}
	}

	return title, DateExtraction{}, StageMeta{
		Confidence: 0,
		Notes:      "no date pattern matched",
	}
}

// cleanDateValue strips bracket/prefix decoration from a raw date match to
// produce the bit-exact range value, while leaving internal dash
// characters (-, –, —) untouched.
func cleanDateValue(raw string) string {
	v := dateWrapperRe.ReplaceAllString(raw, "")
	v = dateLeadRe.ReplaceAllString(v, "")
	v = datePrefixRe.ReplaceAllString(v, "")
	return strings.TrimSpace(v)
}

// enclosingParens finds the innermost "(" ... ")" pair in title that fully
// contains [start, end). Returns the byte offsets of the opening and
// closing parenthesis characters.
func enclosingParens(title string, start, end int) (open, close int, ok bool) {
	openIdx := -1
	depth := 0
	for i := start - 1; i >= 0 && openIdx == -1; i-- {
		switch title[i] {
		case '(':
			if depth == 0 {
				openIdx = i
			} else {
				depth--
			}
		case ')':
			// A closer between an open and start means that open doesn't
			// enclose our match; skip the whole pair and keep scanning left.
			depth++
		}
	}
	if openIdx == -1 {
		return 0, 0, false
	}

	closeIdx := -1
	for i := end; i < len(title); i++ {
		if title[i] == ')' {
			closeIdx = i
			break
		}
		if title[i] == '(' {
			break
		}
	}
	if closeIdx == -1 {
		return 0, 0, false
	}

	return openIdx, closeIdx, true
}
