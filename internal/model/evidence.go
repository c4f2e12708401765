package model

import (
	"errors"
	"fmt"
	"strings"
)

// Contract violations detected when evidence enters the pipeline
var (
	ErrEmptyURL         = errors.New("evidence url is empty")
	ErrScoreOutOfRange  = errors.New("score outside [0,1]")
	ErrNegativePosition = errors.New("claim position is negative")
)

// EvidenceCandidate is one retrieved source item before and during curation.
// URL and ClaimPosition are fixed at creation; every other field is an
// annotation added by a curation stage.
type EvidenceCandidate struct {
	URL           string `json:"url" yaml:"url"`
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	Snippet       string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
	Text          string `json:"text,omitempty" yaml:"text,omitempty"`
	Source        string `json:"source,omitempty" yaml:"source,omitempty"` // Publisher name
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	RelevanceScore   float64  `json:"relevance_score" yaml:"relevance_score"`
	CredibilityScore float64  `json:"credibility_score" yaml:"credibility_score"`
	CombinedScore    *float64 `json:"combined_score,omitempty" yaml:"combined_score,omitempty"`
	FinalScore       *float64 `json:"final_score,omitempty" yaml:"final_score,omitempty"` // Reranker override

	// Deduplicator annotations
	ContentHash       string   `json:"content_hash,omitempty" yaml:"-"`
	IsSyndicated      bool     `json:"is_syndicated" yaml:"-"`
	OriginalSourceURL string   `json:"original_source_url,omitempty" yaml:"-"`
	SyndicatedURLs    []string `json:"syndicated_urls,omitempty" yaml:"-"` // Later copies collapsed into this item

	// Credibility & independence annotations
	SourceType         SourceType       `json:"source_type" yaml:"-"`
	PrimaryIndicators  []string         `json:"primary_indicators,omitempty" yaml:"-"`
	IsOriginalResearch bool             `json:"is_original_research" yaml:"-"`
	ParentCompany      string           `json:"parent_company,omitempty" yaml:"-"`
	IndependenceFlag   IndependenceFlag `json:"independence_flag" yaml:"-"`
	DomainClusterID    int              `json:"domain_cluster_id" yaml:"-"`

	// Supplied by the NLI collaborator; may also arrive pre-labeled
	Stance           Stance  `json:"stance,omitempty" yaml:"stance,omitempty"`
	StanceConfidence float64 `json:"stance_confidence,omitempty" yaml:"stance_confidence,omitempty"`

	ClaimPosition int `json:"claim_position" yaml:"claim_position"`
}

// SourceType is the primary/secondary/tertiary classification of a source
type SourceType string

const (
	SourcePrimary   SourceType = "primary"   // Journals, government data, legal sources
	SourceSecondary SourceType = "secondary" // News reporting
	SourceTertiary  SourceType = "tertiary"  // Fact-checkers, encyclopedias
	SourceUnknown   SourceType = "unknown"
)

// IndependenceFlag classifies the ownership structure behind a source
type IndependenceFlag string

const (
	Independent       IndependenceFlag = "independent"
	Corporate         IndependenceFlag = "corporate"
	StateFunded       IndependenceFlag = "state-funded"
	IndependenceUnset IndependenceFlag = "unknown"
)

// Stance is the NLI label for a (claim, evidence) pair
type Stance string

const (
	StanceSupport    Stance = "support"
	StanceContradict Stance = "contradict"
	StanceNeutral    Stance = "neutral"
)

// ParseStance maps free-form labels onto a Stance. Anything unrecognised is neutral.
func ParseStance(s string) Stance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "support", "supports", "supported", "entailment", "entails":
		return StanceSupport
	case "contradict", "contradicts", "contradicted", "contradiction", "refutes":
		return StanceContradict
	default:
		return StanceNeutral
	}
}

// Body returns the text used for content comparison: snippet, falling back to text
func (e *EvidenceCandidate) Body() string {
	if e.Snippet != "" {
		return e.Snippet
	}
	return e.Text
}

// Score returns the ranking score: final, else combined, else 0
func (e *EvidenceCandidate) Score() float64 {
	if e.FinalScore != nil {
		return *e.FinalScore
	}
	if e.CombinedScore != nil {
		return *e.CombinedScore
	}
	return 0
}

// EnsureDefaults fills classification fields that must never be empty.
// Stance stays empty so the labeler can tell unlabeled items apart.
func (e *EvidenceCandidate) EnsureDefaults() {
	if e.SourceType == "" {
		e.SourceType = SourceUnknown
	}
	if e.IndependenceFlag == "" {
		e.IndependenceFlag = IndependenceUnset
	}
}

// Validate checks the construction contract for a candidate
func (e *EvidenceCandidate) Validate() error {
	if strings.TrimSpace(e.URL) == "" {
		return ErrEmptyURL
	}
	if !inUnitRange(e.RelevanceScore) {
		return fmt.Errorf("relevance_score %.3f for %s: %w", e.RelevanceScore, e.URL, ErrScoreOutOfRange)
	}
	if !inUnitRange(e.CredibilityScore) {
		return fmt.Errorf("credibility_score %.3f for %s: %w", e.CredibilityScore, e.URL, ErrScoreOutOfRange)
	}
	if e.CombinedScore != nil && !inUnitRange(*e.CombinedScore) {
		return fmt.Errorf("combined_score %.3f for %s: %w", *e.CombinedScore, e.URL, ErrScoreOutOfRange)
	}
	if e.ClaimPosition < 0 {
		return fmt.Errorf("%s: %w", e.URL, ErrNegativePosition)
	}
	return nil
}

// Clone returns a deep copy so stages never alias another stage's slices
func (e EvidenceCandidate) Clone() EvidenceCandidate {
	c := e
	c.SyndicatedURLs = append([]string(nil), e.SyndicatedURLs...)
	c.PrimaryIndicators = append([]string(nil), e.PrimaryIndicators...)
	if e.CombinedScore != nil {
		v := *e.CombinedScore
		c.CombinedScore = &v
	}
	if e.FinalScore != nil {
		v := *e.FinalScore
		c.FinalScore = &v
	}
	return c
}

// CloneAll deep-copies a slice of candidates
func CloneAll(evidence []EvidenceCandidate) []EvidenceCandidate {
	if evidence == nil {
		return nil
	}
	out := make([]EvidenceCandidate, len(evidence))
	for i := range evidence {
		out[i] = evidence[i].Clone()
	}
	return out
}

// Float64 returns a pointer to v
func Float64(v float64) *float64 {
	return &v
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
