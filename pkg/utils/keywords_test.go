package utils

import (
	"reflect"
	"testing"
)

func TestSignificantWords(t *testing.T) {
	got := SignificantWords("Fix the LOGIN bug, fix it with the login token!", 3)
	want := []string{"login", "token"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SignificantWords = %v, want %v", got, want)
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	got := ExtractKeywords("alpha bravo charlie delta echo foxtrot golf", 3)
	if len(got) != 3 {
		t.Errorf("ExtractKeywords returned %d words, want 3", len(got))
	}
}

func TestSanitizeQuery(t *testing.T) {
	got := SanitizeQuery("  the $$$ pricing-model?! v2  ")
	want := "the pricingmodel v2"
	if got != want {
		t.Errorf("SanitizeQuery = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	if got := Truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("Truncate = %q, want abcd...", got)
	}
}

func TestUnionDedupGroundTruthFirst(t *testing.T) {
	got := UnionDedup(
		[]string{"retry with backoff", "use a queue"},
		[]string{"use a queue", "  ", "shard the table"},
	)
	want := []string{"retry with backoff", "use a queue", "shard the table"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnionDedup = %v, want %v", got, want)
	}
}
