package dedup

import (
	"testing"

	"github.com/ppiankov/curator/internal/model"
)

func ev(url, snippet string) model.EvidenceCandidate {
	return model.EvidenceCandidate{URL: url, Snippet: snippet, RelevanceScore: 0.5, CredibilityScore: 0.5}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Hello, World!", "hello world"},
		{"  multiple   spaces\n\tand tabs ", "multiple spaces and tabs"},
		{"The <b>President</b> said: \"yes\".", "the president said yes"},
		{"Ｆｕｌｌｗｉｄｔｈ ＡＢＣ", "fullwidth abc"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestContentHash_StableUnderNormalization(t *testing.T) {
	a := ContentHash(Normalize("Inflation rose to 3.2% in May."))
	b := ContentHash(Normalize("  inflation ROSE to 32 in may "))
	if a != b {
		t.Errorf("expected equal hashes, got %s and %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16-char digest, got %d", len(a))
	}
}

func TestDeduplicate_SyndicationScenario(t *testing.T) {
	d := NewDeduplicator(0)
	input := []model.EvidenceCandidate{
		ev("https://a.example.com/story", "The bridge was closed on Monday after inspectors found cracks."),
		ev("https://b.example.org/syndicated", "The bridge was closed on Monday, after inspectors found cracks!"),
		ev("https://c.example.net/other", "Officials announced a new budget for road repairs next year."),
	}

	out, stats := d.Deduplicate(input)

	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out))
	}
	if !out[0].IsSyndicated {
		t.Error("expected surviving item to be flagged syndicated")
	}
	if out[1].IsSyndicated {
		t.Error("expected unrelated item not to be syndicated")
	}
	if len(out[0].SyndicatedURLs) != 1 || out[0].SyndicatedURLs[0] != "https://b.example.org/syndicated" {
		t.Errorf("unexpected syndicated urls: %v", out[0].SyndicatedURLs)
	}
	if stats.ExactRemoved != 1 {
		t.Errorf("expected 1 exact removal, got %d", stats.ExactRemoved)
	}
	if len(stats.Dropped) != 1 || stats.Dropped[0].OriginalSourceURL != "https://a.example.com/story" {
		t.Errorf("expected dropped item pointing at original, got %+v", stats.Dropped)
	}
	if out[0].ContentHash == "" || out[1].ContentHash == "" {
		t.Error("expected content hash on surviving items")
	}
}

func TestDeduplicate_NearDuplicate(t *testing.T) {
	d := NewDeduplicator(0.85)
	input := []model.EvidenceCandidate{
		ev("https://a.com/1", "The central bank raised interest rates by a quarter point on Wednesday"),
		ev("https://b.com/2", "The central bank raised interest rates by a quarter point on Thursday"),
		ev("https://c.com/3", "Local football team wins championship after dramatic penalty shootout"),
	}

	out, stats := d.Deduplicate(input)

	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out))
	}
	if stats.NearRemoved != 1 {
		t.Errorf("expected 1 near-duplicate removal, got %d", stats.NearRemoved)
	}
	if out[0].URL != "https://a.com/1" || out[1].URL != "https://c.com/3" {
		t.Errorf("expected first occurrence to survive, got %s, %s", out[0].URL, out[1].URL)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	d := NewDeduplicator(0)
	input := []model.EvidenceCandidate{
		ev("https://a.com/1", "Alpha beta gamma delta epsilon"),
		ev("https://b.com/1", "alpha beta gamma delta epsilon"),
		ev("https://c.com/1", "Completely different sentence about weather patterns"),
		ev("https://d.com/1", ""),
		ev("https://e.com/1", ""),
	}

	first, _ := d.Deduplicate(input)
	second, stats := d.Deduplicate(first)

	if len(second) != len(first) {
		t.Errorf("expected no further removals, went from %d to %d", len(first), len(second))
	}
	if stats.ExactRemoved != 0 || stats.NearRemoved != 0 {
		t.Errorf("expected zero removals on second pass, got %+v", stats)
	}
}

func TestDeduplicate_EdgeCases(t *testing.T) {
	d := NewDeduplicator(0)

	out, stats := d.Deduplicate(nil)
	if len(out) != 0 || stats.Input != 0 {
		t.Errorf("expected empty output for nil input")
	}

	single := []model.EvidenceCandidate{ev("https://a.com", "")}
	out, stats = d.Deduplicate(single)
	if len(out) != 1 || stats.ExactRemoved+stats.NearRemoved != 0 {
		t.Errorf("expected single item to pass through, got %d items", len(out))
	}

	// Missing text on both collapses by exact hash
	empties := []model.EvidenceCandidate{ev("https://a.com", ""), ev("https://b.com", "")}
	out, _ = d.Deduplicate(empties)
	if len(out) != 1 {
		t.Errorf("expected two empty items to collapse to 1, got %d", len(out))
	}
}

func TestDeduplicate_DoesNotMutateInput(t *testing.T) {
	d := NewDeduplicator(0)
	input := []model.EvidenceCandidate{
		ev("https://a.com/1", "same text"),
		ev("https://b.com/1", "same text"),
	}

	_, _ = d.Deduplicate(input)

	if input[0].IsSyndicated || input[0].ContentHash != "" {
		t.Error("expected input slice to be left untouched")
	}
}

func TestSimilarity(t *testing.T) {
	if Similarity("abc", "abc") != 1 {
		t.Error("identical strings should have similarity 1")
	}
	if Similarity("", "abc") != 0 {
		t.Error("empty vs non-empty should have similarity 0")
	}
	s := Similarity("abcd", "abce")
	if s < 0.7 || s > 0.8 {
		t.Errorf("expected ~0.75 similarity, got %.3f", s)
	}
}
