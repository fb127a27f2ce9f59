package pipeline

import "testing"

func TestExtractTopicStripsOrphanPrepositions(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Retail in", "Retail"},
		{"in Technology", "Technology"},
		{"Carbon Black for Textile Fibers", "Carbon Black for Textile Fibers"},
		{"  , Personal Protective Equipment  ", "Personal Protective Equipment"},
	}

	for _, tc := range cases {
		ext, _ := extractTopic(tc.in)
		if ext.Topic != tc.want {
			t.Errorf("extractTopic(%q).Topic = %q, want %q", tc.in, ext.Topic, tc.want)
		}
	}
}

func TestExtractTopicNormalization(t *testing.T) {
	ext, _ := extractTopic("Directed Energy Weapons (DEW)")
	if ext.NormalizedTopic != "directed energy weapons dew" {
		t.Fatalf("normalized_topic = %q, want %q", ext.NormalizedTopic, "directed energy weapons dew")
	}
}

func TestExtractTopicEmptyResidualIsAMiss(t *testing.T) {
	ext, meta := extractTopic("   ,  - ")
	if meta.Confidence != 0 {
		t.Fatalf("expected confidence 0 for an empty residual, got %v", meta.Confidence)
	}
	if ext.Topic != "" {
		t.Fatalf("expected empty topic, got %q", ext.Topic)
	}
}
