package pipeline

import "testing"

func TestExtractStandardReportType(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, meta := extractReportType(lib, "APAC Personal Protective Equipment Market Analysis", MarketStandard)
	if ext.ReportType != "Market Analysis" {
		t.Fatalf("report_type = %q, want %q", ext.ReportType, "Market Analysis")
	}
	if want := "APAC Personal Protective Equipment"; out != want {
		t.Fatalf("residual = %q, want %q", out, want)
	}
	if meta.Confidence != 1 {
		t.Fatalf("expected confidence 1, got %v", meta.Confidence)
	}
}

func TestExtractStandardReportTypeMultiKeywordChain(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, _ := extractReportType(lib, "U.S. And Europe Digital Pathology Market Size, Share Report", MarketStandard)
	if ext.ReportType != "Market Size Share Report" {
		t.Fatalf("report_type = %q, want %q", ext.ReportType, "Market Size Share Report")
	}
	if want := "U.S. And Europe Digital Pathology"; out != want {
		t.Fatalf("residual = %q, want %q", out, want)
	}
}

func TestExtractStandardReportTypeAcronymEmbedded(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, _ := extractReportType(lib, "Directed Energy Weapons Market Size, DEW Industry Report", MarketStandard)
	if ext.ReportType != "Market Size Industry Report" {
		t.Fatalf("report_type = %q, want %q", ext.ReportType, "Market Size Industry Report")
	}
	if ext.ExtractedAcronym != "DEW" {
		t.Fatalf("extracted_acronym = %q, want DEW", ext.ExtractedAcronym)
	}
	if want := "Directed Energy Weapons (DEW)"; out != want {
		t.Fatalf("residual = %q, want %q", out, want)
	}
}

func TestExtractReportTypeNoKeywordIsAMiss(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, meta := extractReportType(lib, "Personal Protective Equipment", MarketStandard)
	if meta.Confidence != 0 {
		t.Fatalf("expected confidence 0 with no primary keyword, got %v", meta.Confidence)
	}
	if ext.ReportType != "" {
		t.Fatalf("expected empty report_type, got %q", ext.ReportType)
	}
	if out != "Personal Protective Equipment" {
		t.Fatalf("title must pass through unchanged on a miss, got %q", out)
	}
}

func TestExtractMarketAwareReportTypeFor(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, _ := extractReportType(lib, "Carbon Black Market For Textile Fibers Growth Report", MarketFor)
	if ext.ReportType != "Market Growth Report" {
		t.Fatalf("report_type = %q, want %q", ext.ReportType, "Market Growth Report")
	}
	if want := "Carbon Black for Textile Fibers"; out != want {
		t.Fatalf("residual = %q, want %q", out, want)
	}
}

func TestExtractMarketAwareReportTypeIn(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, _ := extractReportType(lib, "Sulfur, Arsine, and Mercury Remover Market in Oil & Gas Industry", MarketIn)
	if ext.ReportType != "Market Industry" {
		t.Fatalf("report_type = %q, want %q", ext.ReportType, "Market Industry")
	}
	if want := "Sulfur, Arsine, and Mercury Remover in Oil & Gas"; out != want {
		t.Fatalf("residual = %q, want %q (symbol preservation for &)", out, want)
	}
}

func TestExtractStandardReportTypeFlagsTechnicalCompoundOnGapWord(t *testing.T) {
	lib := buildLibrary(t)

	_, ext, _ := extractReportType(lib, "Global Widget Market Size eSIM Report", MarketStandard)
	if ext.ReportType != "Market Size" {
		t.Fatalf("report_type = %q, want %q (chain stops at the gap word)", ext.ReportType, "Market Size")
	}
	if !ext.TechnicalCompound {
		t.Fatalf("expected TechnicalCompound on a camel-cased gap word outside the keyword chain")
	}
}

func TestExtractStandardReportTypeFlagsRegionAdjacentKeyword(t *testing.T) {
	lib := buildLibrary(t)

	// "Europe" touches "Market" with nothing but a space between them, so
	// the keyword chain's first span is adjacent to a geographic_entity
	// match stage E will later claim.
	_, ext, _ := extractReportType(lib, "Europe Market Size", MarketStandard)
	if !ext.RegionAdjacent {
		t.Fatalf("expected RegionAdjacent when a region directly precedes the market anchor")
	}
}

func TestExtractMarketAwareReportTypeNoTerminatorYieldsBareMarket(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, _ := extractReportType(lib, "Widget Market for Home Automation", MarketFor)
	if ext.ReportType != "Market" {
		t.Fatalf("report_type = %q, want bare Market when no secondary keyword follows", ext.ReportType)
	}
	if want := "Widget for Home Automation"; out != want {
		t.Fatalf("residual = %q, want %q", out, want)
	}
}
