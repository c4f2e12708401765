package model

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate_ReportsEveryViolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Curation.MaxPerDomain = 0
	cfg.Curation.MaxDomainRatio = 1.2
	cfg.Abstention.MinConsensusStrength = -0.1
	cfg.Concurrency.MaxConcurrentVerifications = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	for _, want := range []string{
		"curation.max_per_domain",
		"curation.max_domain_ratio",
		"abstention.min_consensus_strength",
		"concurrency.max_concurrent_verifications",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestEvidenceValidate(t *testing.T) {
	tests := []struct {
		name string
		ev   EvidenceCandidate
		want error
	}{
		{"valid", EvidenceCandidate{URL: "https://a.com", RelevanceScore: 0.5, CredibilityScore: 1}, nil},
		{"empty url", EvidenceCandidate{URL: "  "}, ErrEmptyURL},
		{"relevance high", EvidenceCandidate{URL: "https://a.com", RelevanceScore: 1.01}, ErrScoreOutOfRange},
		{"credibility negative", EvidenceCandidate{URL: "https://a.com", CredibilityScore: -0.2}, ErrScoreOutOfRange},
		{"combined high", EvidenceCandidate{URL: "https://a.com", CombinedScore: Float64(2)}, ErrScoreOutOfRange},
		{"negative position", EvidenceCandidate{URL: "https://a.com", ClaimPosition: -1}, ErrNegativePosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckInputValidate(t *testing.T) {
	input := CheckInput{Claims: []Claim{
		{Position: 3, Text: "a", Evidence: []EvidenceCandidate{{URL: "https://a.com"}}},
	}}
	if err := input.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := input.Claims[0].Evidence[0].ClaimPosition; got != 3 {
		t.Errorf("evidence claim position = %d, want inherited 3", got)
	}

	bad := CheckInput{Claims: []Claim{
		{Position: 1, Text: "a", Evidence: []EvidenceCandidate{{URL: "https://a.com", ClaimPosition: 2}}},
		{Position: 1, Text: "b"},
		{Position: -1, Text: "c"},
	}}
	err := bad.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	for _, want := range []string{"does not match claim", "duplicate position 1", "negative"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestScore(t *testing.T) {
	ev := EvidenceCandidate{}
	if ev.Score() != 0 {
		t.Errorf("Score() = %v, want 0 with no scores", ev.Score())
	}
	ev.CombinedScore = Float64(0.7)
	if ev.Score() != 0.7 {
		t.Errorf("Score() = %v, want combined 0.7", ev.Score())
	}
	ev.FinalScore = Float64(0.2)
	if ev.Score() != 0.2 {
		t.Errorf("Score() = %v, want final 0.2", ev.Score())
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := EvidenceCandidate{
		URL:               "https://a.com",
		CombinedScore:     Float64(0.5),
		SyndicatedURLs:    []string{"https://b.com"},
		PrimaryIndicators: []string{"academic_journal"},
	}
	c := orig.Clone()
	*c.CombinedScore = 0.9
	c.SyndicatedURLs[0] = "changed"
	c.PrimaryIndicators[0] = "changed"

	if *orig.CombinedScore != 0.5 || orig.SyndicatedURLs[0] != "https://b.com" || orig.PrimaryIndicators[0] != "academic_journal" {
		t.Errorf("Clone shares state with original: %+v", orig)
	}
	if CloneAll(nil) != nil {
		t.Error("CloneAll(nil) should be nil")
	}
}

func TestParseStance(t *testing.T) {
	tests := map[string]Stance{
		"SUPPORTS":      StanceSupport,
		" entailment ":  StanceSupport,
		"refutes":       StanceContradict,
		"contradiction": StanceContradict,
		"unrelated":     StanceNeutral,
		"":              StanceNeutral,
	}
	for in, want := range tests {
		if got := ParseStance(in); got != want {
			t.Errorf("ParseStance(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAbstentions(t *testing.T) {
	r := CheckReport{Claims: []ClaimReport{
		{Decision: VerdictDecision{Abstained: true}},
		{Decision: VerdictDecision{}},
		{Decision: VerdictDecision{Abstained: true}},
	}}
	if r.Abstentions() != 2 {
		t.Errorf("Abstentions() = %d, want 2", r.Abstentions())
	}
}
