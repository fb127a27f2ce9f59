package pipeline

import (
	"regexp"
	"strings"
)

var (
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	emptyParensRe   = regexp.MustCompile(`\(\s*\)`)
	emptyBracketsRe = regexp.MustCompile(`\[\s*\]`)
)

// normalizeSpacing collapses whitespace runs, drops empty parens/brackets,
// balances unmatched parentheses, and trims stray trailing punctuation.
// Several stages need exactly this sequence after removing a span, so it
// lives here rather than being duplicated per stage.
func normalizeSpacing(title string) string {
	title = emptyParensRe.ReplaceAllString(title, "")
	title = emptyBracketsRe.ReplaceAllString(title, "")

	if strings.Count(title, "(") != strings.Count(title, ")") {
		title = strings.NewReplacer("(", "", ")", "").Replace(title)
	}

	title = whitespaceRunRe.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)
	title = strings.TrimRight(title, ",.")
	title = strings.TrimSpace(title)

	return title
}

// trimSeparators strips leading/trailing separator characters used by the
// topic stage's first cleanup step.
func trimSeparators(s string) string {
	return strings.Trim(s, ",-–—:; \t")
}
