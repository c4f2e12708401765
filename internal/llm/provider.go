package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/curator/internal/model"
)

// StanceLabeler is the NLI collaborator: it labels each evidence item as
// supporting, contradicting or neutral towards a claim.
type StanceLabeler interface {
	// Name identifies the labeler (and model) for cache keys and reports
	Name() string

	// Label returns one label per evidence item, in order
	Label(ctx context.Context, req LabelRequest) ([]Label, error)
}

// LabelRequest is one claim and the curated evidence to label against it
type LabelRequest struct {
	Claim    string
	Evidence []model.EvidenceCandidate
}

// Label is the stance for one (claim, evidence) pair
type Label struct {
	Stance     model.Stance `json:"stance"`
	Confidence float64      `json:"confidence"`
}

// Config holds stance labeler configuration
type Config struct {
	// Provider name: "openai", "ollama", "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout per request
	Timeout int // seconds

	MaxTokens int

	// Outbound throttling per provider host
	RequestsPerSecond float64
	Burst             int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Timeout:           30,
		MaxTokens:         200,
		RequestsPerSecond: 5,
		Burst:             5,
	}
}

const systemPrompt = `You are a natural language inference model for fact-checking.
Given a CLAIM and an EVIDENCE passage, decide whether the evidence supports the claim,
contradicts it, or is neutral (unrelated or inconclusive). Judge only from the passage.
Reply with JSON only: {"stance": "support" | "contradict" | "neutral", "confidence": <0..1>}`

// maxPassage bounds the evidence text sent per request
const maxPassage = 2000

// BuildPrompt constructs the user message for one (claim, evidence) pair
func BuildPrompt(claim string, ev model.EvidenceCandidate) string {
	passage := strings.TrimSpace(ev.Body())
	if len(passage) > maxPassage {
		passage = passage[:maxPassage] + "..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CLAIM: %s\n\n", strings.TrimSpace(claim))
	if ev.Title != "" {
		fmt.Fprintf(&b, "EVIDENCE TITLE: %s\n", ev.Title)
	}
	if ev.Source != "" {
		fmt.Fprintf(&b, "EVIDENCE SOURCE: %s\n", ev.Source)
	}
	fmt.Fprintf(&b, "EVIDENCE: %s\n", passage)
	return b.String()
}

// ParseLabel reads a model reply. JSON is preferred; free text falls back to
// keyword matching, and anything unrecognised is neutral.
func ParseLabel(reply string) Label {
	text := strings.TrimSpace(reply)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw struct {
		Stance     string  `json:"stance"`
		Confidence float64 `json:"confidence"`
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err == nil && raw.Stance != "" {
			return Label{Stance: model.ParseStance(raw.Stance), Confidence: clampConfidence(raw.Confidence)}
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "contradict") || strings.Contains(lower, "refute"):
		return Label{Stance: model.StanceContradict, Confidence: 0.5}
	case strings.Contains(lower, "support"):
		return Label{Stance: model.StanceSupport, Confidence: 0.5}
	default:
		return Label{Stance: model.StanceNeutral}
	}
}

func clampConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
