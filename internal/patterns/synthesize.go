package patterns

import (
	"regexp"
	"sort"
	"strings"
)

// synthesize builds a regex source for a pattern record that has no
// explicit PatternSource:
//
//   - alternation of escaped surface forms (Term + Aliases), longest first
//   - flexible spacing for forms containing ",", " and ", or " & "
//   - punctuation-tolerant boundaries (e.g. "U.S.") via negative lookaround
//     instead of \b, which fails around trailing punctuation
func synthesize(p Pattern) string {
	forms := make([]string, 0, 1+len(p.Aliases))
	forms = append(forms, p.Term)
	forms = append(forms, p.Aliases...)

	// Longest first so alternation greedily prefers the longer surface form.
	sort.SliceStable(forms, func(i, j int) bool {
		return len(forms[i]) > len(forms[j])
	})

	parts := make([]string, 0, len(forms))
	for _, f := range forms {
		parts = append(parts, flexiblePattern(f))
	}

	return strings.Join(parts, "|")
}

// flexiblePattern escapes a surface form and wraps it with the boundary
// rule appropriate to its punctuation. Go's stdlib regexp (RE2) can't
// express the lookaround below, so compiled patterns run on regexp2.
func flexiblePattern(form string) string {
	escaped := flexibleSpacing(form)

	if strings.ContainsAny(form, ".") {
		return `(?<![A-Za-z0-9])` + escaped + `(?![A-Za-z0-9])`
	}
	return `\b` + escaped + `\b`
}

// flexibleSpacing escapes a surface form while substituting flexible
// whitespace around separators so minor source variation (extra spaces,
// "&" for "and") still matches.
func flexibleSpacing(form string) string {
	// Escape the whole form first, then re-loosen the separator
	// sequences. Escaping first guarantees nothing else in the form is
	// interpreted as a regex metacharacter.
	escaped := regexp.QuoteMeta(form)

	replacements := []struct {
		literal     string
		replacement string
	}{
		{regexp.QuoteMeta(" and "), `\s+(?:and|&)\s+`},
		{regexp.QuoteMeta(" & "), `\s*&\s*`},
		{regexp.QuoteMeta(","), `\s*,\s*`},
	}

	for _, r := range replacements {
		escaped = strings.ReplaceAll(escaped, r.literal, r.replacement)
	}

	return escaped
}
