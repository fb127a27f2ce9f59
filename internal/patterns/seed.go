package patterns

// Defaults returns the baseline pattern set a fresh store is seeded with.
// It covers the handful of market qualifiers, date shapes, report-type
// dictionary entries, and geographic entities needed to parse common
// market-research titles; curators grow it from there through Curator.
func Defaults() []Pattern {
	var out []Pattern
	out = append(out, marketTermDefaults()...)
	out = append(out, datePatternDefaults()...)
	out = append(out, reportTypeDictionaryDefaults()...)
	out = append(out, geographicEntityDefaults()...)
	return out
}

func marketTermDefaults() []Pattern {
	return []Pattern{
		{Type: TypeMarketTerm, Term: "market_for", PatternSource: `(?i)\bmarket\s+for\b`, Priority: 10, Active: true},
		{Type: TypeMarketTerm, Term: "market_in", PatternSource: `(?i)\bmarket\s+in\b`, Priority: 20, Active: true},
		{Type: TypeMarketTerm, Term: "market_by", PatternSource: `(?i)\bmarket\s+by\b`, Priority: 30, Active: true},
	}
}

// datePatternDefaults is ordered so ranges are tried before single years,
// and bracketed/fiscal/quarter forms before a bare terminal comma-year, so
// the longest and most specific shape always wins.
func datePatternDefaults() []Pattern {
	return []Pattern{
		{
			Type: TypeDatePattern, Term: "bracketed_range", Priority: 10, Active: true,
			PatternSource: `(?i)[\[(]\s*(FY\s*)?\d{4}\s*[-–—]\s*\d{4}\s*[\])]`,
		},
		{
			Type: TypeDatePattern, Term: "fiscal_year_range", Priority: 20, Active: true,
			PatternSource: `(?i)\b(Fiscal Year|FY)\s*\d{4}\s*[-–—]\s*\d{4}\b`,
		},
		{
			Type: TypeDatePattern, Term: "quarter_year", Priority: 30, Active: true,
			PatternSource: `(?i)\bQ[1-4]\s+\d{4}\b`,
		},
		{
			Type: TypeDatePattern, Term: "year_range", Priority: 40, Active: true,
			PatternSource: `\b\d{4}\s*[-–—]\s*\d{4}\b`,
		},
		{
			Type: TypeDatePattern, Term: "terminal_comma_year", Priority: 50, Active: true,
			PatternSource: `,\s*\d{4}\s*$`,
		},
		{
			Type: TypeDatePattern, Term: "standalone_year", Priority: 60, Active: true,
			PatternSource: `\b(19|20)\d{2}\b`,
		},
	}
}

func reportTypeDictionaryDefaults() []Pattern {
	primary := []string{"Market"}
	secondary := []string{
		"Size", "Share", "Report", "Analysis", "Outlook", "Forecast",
		"Trends", "Growth", "Study", "Industry", "Statistics",
	}
	separators := []string{",", "and", "&"}
	boundary := []string{"Global", "Worldwide"}

	var out []Pattern
	for i, term := range primary {
		out = append(out, Pattern{
			Type: TypeReportTypeDictionary, Term: term, Subtype: SubtypePrimaryKeyword,
			Priority: i, Active: true,
		})
	}
	for i, term := range secondary {
		out = append(out, Pattern{
			Type: TypeReportTypeDictionary, Term: term, Subtype: SubtypeSecondaryKeyword,
			Priority: i, Active: true,
		})
	}
	for i, term := range separators {
		out = append(out, Pattern{
			Type: TypeReportTypeDictionary, Term: term, Subtype: SubtypeSeparator,
			Priority: i, Active: true,
		})
	}
	for i, term := range boundary {
		out = append(out, Pattern{
			Type: TypeReportTypeDictionary, Term: term, Subtype: SubtypeBoundaryMarker,
			Priority: i, Active: true,
		})
	}
	return out
}

func geographicEntityDefaults() []Pattern {
	return []Pattern{
		{
			Type: TypeGeographicEntity, Term: "United States", Priority: 10, Active: true,
			Aliases: []string{"U.S.", "USA", "US"},
		},
		{Type: TypeGeographicEntity, Term: "Canada", Priority: 20, Active: true},
		{Type: TypeGeographicEntity, Term: "Mexico", Priority: 30, Active: true},
		{
			Type: TypeGeographicEntity, Term: "Europe", Priority: 40, Active: true,
			Aliases: []string{"European"},
		},
		{Type: TypeGeographicEntity, Term: "United Kingdom", Priority: 50, Active: true, Aliases: []string{"UK"}},
		{Type: TypeGeographicEntity, Term: "Germany", Priority: 60, Active: true},
		{Type: TypeGeographicEntity, Term: "France", Priority: 70, Active: true},
		{
			Type: TypeGeographicEntity, Term: "Asia-Pacific", Priority: 80, Active: true,
			Aliases: []string{"APAC", "Asia Pacific"},
		},
		{Type: TypeGeographicEntity, Term: "China", Priority: 90, Active: true},
		{Type: TypeGeographicEntity, Term: "Japan", Priority: 100, Active: true},
		{Type: TypeGeographicEntity, Term: "India", Priority: 110, Active: true},
		{
			Type: TypeGeographicEntity, Term: "Middle East", Priority: 120, Active: true,
			Aliases: []string{"MEA"},
		},
		{Type: TypeGeographicEntity, Term: "Africa", Priority: 130, Active: true},
		{Type: TypeGeographicEntity, Term: "Latin America", Priority: 140, Active: true, Aliases: []string{"LATAM"}},
		{Type: TypeGeographicEntity, Term: "Brazil", Priority: 150, Active: true},
	}
}
