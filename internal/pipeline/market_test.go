package pipeline

import "testing"

func TestClassifyMarket(t *testing.T) {
	lib := buildLibrary(t)

	cases := []struct {
		title string
		want  MarketType
	}{
		{"Carbon Black Market For Textile Fibers Growth Report, 2020", MarketFor},
		{"Sulfur Remover Market in Oil & Gas Industry", MarketIn},
		{"Widget Market by Application, 2030", MarketBy},
		{"APAC Personal Protective Equipment Market Analysis, 2024-2030", MarketStandard},
	}

	for _, tc := range cases {
		title, classification, meta := classifyMarket(lib, tc.title)
		if classification.MarketType != tc.want {
			t.Errorf("classifyMarket(%q) = %v, want %v", tc.title, classification.MarketType, tc.want)
		}
		if title != tc.title {
			t.Errorf("classifyMarket must not modify the title, got %q want %q", title, tc.title)
		}
		if meta.Confidence != 1 {
			t.Errorf("classifyMarket never misses; got confidence %v", meta.Confidence)
		}
	}
}
