package pipeline

import (
	"github.com/titlelex/titlelex/internal/patterns"
)

// classifyMarket scans title against the three market_term patterns and
// returns the first match's type in priority order, or MarketStandard if
// none match. It never removes text: the title returned is the input
// unchanged.
func classifyMarket(lib *patterns.Library, title string) (string, MarketClassification, StageMeta) {
	for _, c := range lib.Patterns(patterns.TypeMarketTerm) {
		m, ok := patterns.FindFirst(c.Regex, title)
		if !ok {
			continue
		}
		mt := marketTypeForTerm(c.Pattern.Term)
		if mt == MarketStandard {
			continue
		}
		return title, MarketClassification{MarketType: mt}, StageMeta{
			Confidence:     1,
			MatchedPattern: c.Pattern.Term,
			Notes:          "matched market qualifier " + m.Text,
		}
	}

	return title, MarketClassification{MarketType: MarketStandard}, StageMeta{
		Confidence: 1,
		Notes:      "no market qualifier found",
	}
}

// marketTypeForTerm maps a market_term pattern's canonical term to a
// MarketType. Library curation is expected to name terms "market_for",
// "market_in", "market_by" so this mapping never needs a library lookup.
func marketTypeForTerm(term string) MarketType {
	switch term {
	case "market_for":
		return MarketFor
	case "market_in":
		return MarketIn
	case "market_by":
		return MarketBy
	default:
		return MarketStandard
	}
}
