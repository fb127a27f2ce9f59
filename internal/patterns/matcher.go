package patterns

import (
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single regexp2 match attempt. regexp2 supports
// backtracking constructs (lookaround) that RE2 can't express, at the
// cost of RE2's linear-time guarantee; a per-match timeout keeps a
// pathological pattern from hanging a title's parse.
const matchTimeout = 200 * time.Millisecond

// Match is one non-overlapping occurrence of a compiled pattern in a
// title, with byte offsets into the original string.
type Match struct {
	Start int
	End   int
	Text  string
}

// FindAllNonOverlapping returns every non-overlapping match of re in s, in
// left-to-right order. regexp2 has no FindAllString equivalent, so this
// walks matches via FindNextMatch.
func FindAllNonOverlapping(re *regexp2.Regexp, s string) []Match {
	var out []Match

	m, err := re.FindStringMatch(s)
	for err == nil && m != nil {
		out = append(out, Match{
			Start: m.Index,
			End:   m.Index + m.Length,
			Text:  m.String(),
		})
		m, err = re.FindNextMatch(m)
	}

	return out
}

// FindFirst returns the leftmost match of re in s, if any.
func FindFirst(re *regexp2.Regexp, s string) (Match, bool) {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return Match{}, false
	}
	return Match{Start: m.Index, End: m.Index + m.Length, Text: m.String()}, true
}
