package pipeline

import (
	"regexp"
	"strings"
)

var (
	orphanPrepositionRe = regexp.MustCompile(`(?i)^(in|for|by|of|the)\b\s*|\s*\b(in|for|by|of|the)$`)
	nonAlnumRunRe        = regexp.MustCompile(`[^a-z0-9]+`)
)

// extractTopic is the final cleanup stage: it trims separator punctuation,
// strips prepositions left dangling at either edge once the market term,
// date, report type and regions are gone, and derives a normalized form for
// comparison/dedup use.
func extractTopic(title string) (TopicExtraction, StageMeta) {
	topic := trimSeparators(title)
	topic = stripOrphanPrepositions(topic)
	topic = normalizeSpacing(topic)

	if topic == "" {
		return TopicExtraction{}, StageMeta{Confidence: 0, Notes: "empty residual topic"}
	}

	return TopicExtraction{
		Topic:           topic,
		NormalizedTopic: normalizeTopic(topic),
	}, StageMeta{Confidence: 1, Notes: "residual topic extracted"}
}

// stripOrphanPrepositions repeatedly removes a leading/trailing preposition
// left behind by an earlier stage's removal, e.g. "in Oil & Gas" losing its
// region leaves nothing, but "Market in" losing its object leaves a
// dangling "in" at the end.
func stripOrphanPrepositions(s string) string {
	for {
		trimmed := strings.TrimSpace(orphanPrepositionRe.ReplaceAllString(s, ""))
		trimmed = trimSeparators(trimmed)
		if trimmed == s {
			return trimmed
		}
		s = trimmed
	}
}

// normalizeTopic lowercases and collapses the topic to a comparison form:
// runs of non-alphanumeric characters become single spaces, and the result
// is trimmed.
func normalizeTopic(topic string) string {
	lower := strings.ToLower(topic)
	collapsed := nonAlnumRunRe.ReplaceAllString(lower, " ")
	return strings.TrimSpace(collapsed)
}
