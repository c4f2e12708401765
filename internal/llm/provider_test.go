package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/curator/internal/cache"
	"github.com/ppiankov/curator/internal/model"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		reply string
		want  Label
	}{
		{`{"stance": "support", "confidence": 0.92}`, Label{model.StanceSupport, 0.92}},
		{"```json\n{\"stance\": \"contradict\", \"confidence\": 0.7}\n```", Label{model.StanceContradict, 0.7}},
		{`Sure! {"stance":"neutral","confidence":0.4}`, Label{model.StanceNeutral, 0.4}},
		{`{"stance": "entailment", "confidence": 1.7}`, Label{model.StanceSupport, 1}},
		{"The evidence refutes the claim.", Label{model.StanceContradict, 0.5}},
		{"It supports the claim.", Label{model.StanceSupport, 0.5}},
		{"I cannot tell.", Label{model.StanceNeutral, 0}},
		{"", Label{model.StanceNeutral, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			if got := ParseLabel(tt.reply); got != tt.want {
				t.Errorf("ParseLabel(%q) = %+v, want %+v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	ev := model.EvidenceCandidate{
		URL:     "https://a.example/1",
		Title:   "Bridge reopens",
		Source:  "Daily Example",
		Snippet: strings.Repeat("x", maxPassage+50),
	}
	prompt := BuildPrompt("  The bridge reopened  ", ev)

	for _, want := range []string{"CLAIM: The bridge reopened\n", "EVIDENCE TITLE: Bridge reopens", "EVIDENCE SOURCE: Daily Example"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, strings.Repeat("x", maxPassage+1)) {
		t.Error("passage was not truncated")
	}
}

func TestNewLabeler(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantNil bool
		wantErr bool
	}{
		{"disabled", Config{}, true, false},
		{"openai", Config{Provider: "openai", APIKey: "k"}, false, false},
		{"openai without key", Config{Provider: "OpenAI"}, true, true},
		{"ollama needs no key", Config{Provider: "ollama"}, false, false},
		{"unknown", Config{Provider: "carrier-pigeon"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labeler, err := NewLabeler(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (labeler == nil) != tt.wantNil {
				t.Errorf("labeler = %v, wantNil %v", labeler, tt.wantNil)
			}
		})
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "openai"
	cfg.LLM.HTTPSProxy = "http://proxy:3128"

	got := ConfigFromModel(cfg.LLM, cfg.RateLimiting)
	if got.Provider != "openai" || got.HTTPSProxy != "http://proxy:3128" {
		t.Errorf("ConfigFromModel = %+v", got)
	}
	if got.RequestsPerSecond != cfg.RateLimiting.RequestsPerSecond || got.Burst != cfg.RateLimiting.BurstSize {
		t.Errorf("rate limits not carried: %+v", got)
	}
}

func TestStaticLabeler(t *testing.T) {
	s := &StaticLabeler{ByURL: map[string]Label{
		"https://a.example/1": {Stance: model.StanceContradict, Confidence: 0.9},
	}}
	labels, err := s.Label(context.Background(), LabelRequest{Evidence: []model.EvidenceCandidate{
		{URL: "https://a.example/1"},
		{URL: "https://b.example/2", Stance: model.StanceSupport, StanceConfidence: 0.6},
		{URL: "https://c.example/3"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	want := []Label{
		{model.StanceContradict, 0.9},
		{model.StanceSupport, 0.6},
		{model.StanceNeutral, 0},
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %+v, want %+v", i, labels[i], want[i])
		}
	}
}

// countingLabeler records how many items it was asked to label
type countingLabeler struct {
	items int
	err   error
}

func (c *countingLabeler) Name() string { return "counting" }

func (c *countingLabeler) Label(ctx context.Context, req LabelRequest) ([]Label, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.items += len(req.Evidence)
	out := make([]Label, len(req.Evidence))
	for i := range out {
		out[i] = Label{Stance: model.StanceSupport, Confidence: 0.8}
	}
	return out, nil
}

func TestCachingLabeler(t *testing.T) {
	inner := &countingLabeler{}
	labeler := NewCachingLabeler(inner, cache.NewMemoryCache(time.Hour, time.Hour), time.Hour)

	req := LabelRequest{
		Claim: "claim",
		Evidence: []model.EvidenceCandidate{
			{URL: "https://a.example/1", Snippet: "one"},
			{URL: "https://b.example/2", Snippet: "two"},
		},
	}
	if _, err := labeler.Label(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if inner.items != 2 {
		t.Fatalf("first call labeled %d items, want 2", inner.items)
	}

	req.Evidence = append(req.Evidence, model.EvidenceCandidate{URL: "https://c.example/3", Snippet: "three"})
	labels, err := labeler.Label(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if inner.items != 3 {
		t.Errorf("second call forwarded %d new items, want 1", inner.items-2)
	}
	for i, l := range labels {
		if l.Stance != model.StanceSupport {
			t.Errorf("labels[%d] = %+v", i, l)
		}
	}

	other := req
	other.Claim = "a different claim"
	if _, err := labeler.Label(context.Background(), other); err != nil {
		t.Fatal(err)
	}
	if inner.items != 6 {
		t.Errorf("cache keyed without the claim: %d items labeled", inner.items)
	}
}

func TestCachingLabeler_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	labeler := NewCachingLabeler(&countingLabeler{err: boom}, cache.Nop{}, time.Hour)
	_, err := labeler.Label(context.Background(), LabelRequest{Evidence: []model.EvidenceCandidate{{URL: "https://a.example"}}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
