package pipeline

import "testing"

func TestExtractDateRangePreservesDashCharacter(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, meta := extractDate(lib, "APAC Personal Protective Equipment Market Analysis, 2024-2030")
	if ext.Range != "2024-2030" {
		t.Fatalf("range = %q, want 2024-2030", ext.Range)
	}
	if meta.Confidence != 1 {
		t.Fatalf("expected a match, confidence %v", meta.Confidence)
	}
	if want := "APAC Personal Protective Equipment Market Analysis"; out != want {
		t.Fatalf("residual = %q, want %q", out, want)
	}
}

func TestExtractDateParentheticalRescue(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, _ := extractDate(lib, "Battery Fuel Gauge Market (Forecast 2020-2030)")
	if ext.Range != "2020-2030" {
		t.Fatalf("range = %q, want 2020-2030", ext.Range)
	}
	if want := "Battery Fuel Gauge Market Forecast"; out != want {
		t.Fatalf("residual = %q, want %q (non-date parenthetical content must be rescued)", out, want)
	}
}

func TestExtractDateNoMatchIsNotAnError(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, meta := extractDate(lib, "Sulfur Remover Market in Oil & Gas Industry")
	if meta.Confidence != 0 {
		t.Fatalf("expected confidence 0 for no date, got %v", meta.Confidence)
	}
	if ext.Range != "" {
		t.Fatalf("expected empty range, got %q", ext.Range)
	}
	if out != "Sulfur Remover Market in Oil & Gas Industry" {
		t.Fatalf("title must pass through unchanged on a miss, got %q", out)
	}
}

func TestExtractDateTerminalCommaYear(t *testing.T) {
	lib := buildLibrary(t)

	out, ext, _ := extractDate(lib, "Carbon Black Market For Textile Fibers Growth Report, 2020")
	if ext.Range != "2020" {
		t.Fatalf("range = %q, want 2020", ext.Range)
	}
	if want := "Carbon Black Market For Textile Fibers Growth Report"; out != want {
		t.Fatalf("residual = %q, want %q", out, want)
	}
}
