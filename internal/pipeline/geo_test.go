package pipeline

import (
	"reflect"
	"testing"

	"github.com/titlelex/titlelex/internal/patterns"
)

func TestExtractGeoHyphenGuardRejectsCompoundWord(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, meta := extractGeo(lib, "Non-U.S. Healthcare Market Size Report")
	if len(ext.Regions) != 0 {
		t.Fatalf("expected no regions, a hyphen-adjacent match must be rejected; got %v", ext.Regions)
	}
	if meta.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %v", meta.Confidence)
	}
	if out != "Non-U.S. Healthcare Market Size Report" {
		t.Fatalf("title must pass through unchanged on a miss, got %q", out)
	}
}

func TestExtractGeoRegionalGroupWithConnector(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, _ := extractGeo(lib, "U.S. And Europe Digital Pathology Market Size")
	want := []string{"United States", "Europe"}
	if !reflect.DeepEqual(ext.Regions, want) {
		t.Fatalf("regions = %v, want %v", ext.Regions, want)
	}
	if want := "Digital Pathology Market Size"; out != want {
		t.Fatalf("residual = %q, want %q", out, want)
	}
}

func TestExtractGeoCanonicalTermNotMatchedAlias(t *testing.T) {
	lib := buildLibrary(t)

	_, ext, _ := extractGeo(lib, "APAC Personal Protective Equipment Market")
	if len(ext.Regions) != 1 || ext.Regions[0] != "Asia-Pacific" {
		t.Fatalf("regions = %v, want the canonical term [Asia-Pacific], not the matched alias", ext.Regions)
	}
}

func TestExtractGeoOverlapResolutionKeepsLonger(t *testing.T) {
	lib := buildLibrary(t, patterns.Pattern{Type: patterns.TypeGeographicEntity, Term: "East", Priority: 5, Active: true})

	// The extra single-word "East" entity overlaps the two-word "Middle
	// East"; overlap resolution must keep the longer match and drop the
	// shorter component.
	_, ext, _ := extractGeo(lib, "Middle East Oil and Gas Market")
	if len(ext.Regions) != 1 || ext.Regions[0] != "Middle East" {
		t.Fatalf("regions = %v, want [Middle East]", ext.Regions)
	}
}

func TestExtractGeoNoMatchIsAMiss(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, meta := extractGeo(lib, "Personal Protective Equipment Market")
	if meta.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %v", meta.Confidence)
	}
	if ext.Regions != nil {
		t.Fatalf("expected nil regions, got %v", ext.Regions)
	}
	if out != "Personal Protective Equipment Market" {
		t.Fatalf("title must pass through unchanged on a miss, got %q", out)
	}
}
