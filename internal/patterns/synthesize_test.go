package patterns

import (
	"testing"

	"github.com/dlclark/regexp2"
)

func matches(t *testing.T, src, s string) bool {
	t.Helper()
	re, err := regexp2.Compile(src, regexp2.IgnoreCase)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	m, err := re.FindStringMatch(s)
	if err != nil {
		t.Fatalf("match %q against %q: %v", src, s, err)
	}
	return m != nil
}

func TestSynthesizeDottedTermUsesLookaroundBoundary(t *testing.T) {
	src := synthesize(Pattern{Term: "U.S.", Aliases: []string{"USA"}})

	if !matches(t, src, "the U.S. market") {
		t.Error("expected a dotted term to match at a normal word boundary")
	}
	if matches(t, src, "AU.S.B market") {
		t.Error("dotted term must not match when embedded in a larger token")
	}
}

func TestSynthesizePrefersLongestAlias(t *testing.T) {
	src := synthesize(Pattern{Term: "Europe", Aliases: []string{"European"}})

	re, err := regexp2.Compile(src, regexp2.IgnoreCase)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m, err := re.FindStringMatch("European markets")
	if err != nil || m == nil {
		t.Fatalf("expected a match, err=%v m=%v", err, m)
	}
	if m.String() != "European" {
		t.Errorf("match = %q, want the longer alias %q", m.String(), "European")
	}
}

func TestSynthesizeFlexibleConnectorSpacing(t *testing.T) {
	src := synthesize(Pattern{Term: "Bosnia and Herzegovina"})

	if !matches(t, src, "Bosnia & Herzegovina") {
		t.Error("expected '&' to substitute for 'and'")
	}
	if !matches(t, src, "Bosnia  and  Herzegovina") {
		t.Error("expected extra whitespace around the connector to still match")
	}
}
