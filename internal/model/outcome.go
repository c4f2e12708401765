package model

import "time"

// Verdict is the final label for a claim
type Verdict string

const (
	VerdictSupported    Verdict = "supported"
	VerdictContradicted Verdict = "contradicted"
	VerdictUncertain    Verdict = "uncertain"
)

// AbstentionReason names the evidentiary gate that failed
type AbstentionReason string

const (
	ReasonInsufficientEvidence AbstentionReason = "insufficient_evidence"
	ReasonLowCredibility       AbstentionReason = "low_credibility_sources"
	ReasonConflictingEvidence  AbstentionReason = "conflicting_evidence"
)

// CurationMetrics are the aggregates reported alongside a claim's evidence
type CurationMetrics struct {
	TotalEvidence      int     `json:"total_evidence"`
	UniqueDomains      int     `json:"unique_domains"`
	MaxDomainRatio     float64 `json:"max_domain_ratio"`
	DiversityScore     float64 `json:"diversity_score"`
	DiversityPass      bool    `json:"diversity_pass"`
	UniqueOwners       int     `json:"unique_owners"`
	AverageCredibility float64 `json:"average_credibility"`
	Supporting         int     `json:"supporting"`
	Contradicting      int     `json:"contradicting"`
	Neutral            int     `json:"neutral"`
	OriginalResearch   int     `json:"original_research"`
}

// CurationOutcome is the curated evidence set for one claim
type CurationOutcome struct {
	ClaimPosition int                 `json:"claim_position"`
	Evidence      []EvidenceCandidate `json:"evidence"`
	Metrics       CurationMetrics     `json:"metrics"`
}

// VerdictDecision is created once per claim after curation and never mutated
type VerdictDecision struct {
	Verdict            Verdict          `json:"verdict"`
	Confidence         float64          `json:"confidence"` // 0-100
	Abstained          bool             `json:"abstained"`
	AbstentionReason   AbstentionReason `json:"abstention_reason,omitempty"`
	MinRequirementsMet bool             `json:"min_requirements_met"`
	ConsensusStrength  *float64         `json:"consensus_strength"`
}

// Rejection records an item removed by the Source Validator
type Rejection struct {
	Evidence EvidenceCandidate `json:"evidence"`
	Reason   string            `json:"reason"`
}

// DedupStats summarises one Deduplicator run
type DedupStats struct {
	Input           int      `json:"input"`
	Output          int      `json:"output"`
	ExactRemoved    int      `json:"exact_removed"`
	NearRemoved     int      `json:"near_removed"`
	SyndicatedPairs []string `json:"syndicated_pairs,omitempty"` // "dropped -> kept"

	// Dropped items retained for audit, each pointing at the item it duplicated
	Dropped []EvidenceCandidate `json:"dropped,omitempty"`
}

// TemporalAnalysis describes a claim's time sensitivity
type TemporalAnalysis struct {
	IsTimeSensitive    bool     `json:"is_time_sensitive"`
	TemporalMarkers    []string `json:"temporal_markers,omitempty"`
	TemporalWindow     string   `json:"temporal_window"`
	MaxEvidenceAgeDays *int     `json:"max_evidence_age_days"`
	ClaimType          string   `json:"claim_type"`
}

// ClaimReport is everything the pipeline produced for one claim
type ClaimReport struct {
	Position         int              `json:"position"`
	Text             string           `json:"text"`
	Outcome          CurationOutcome  `json:"outcome"`
	Decision         VerdictDecision  `json:"decision"`
	Rejected         []Rejection      `json:"rejected,omitempty"`
	Dedup            DedupStats       `json:"dedup"`
	Temporal         TemporalAnalysis `json:"temporal"`
	StaleDropped     int              `json:"stale_dropped"`
	LocalCapDropped  int              `json:"local_cap_dropped"`
	GlobalCapDropped int              `json:"global_cap_dropped"`
	TimedOut         bool             `json:"timed_out,omitempty"`
}

// CheckReport is the full output of one fact-check run
type CheckReport struct {
	ID          string        `json:"id"`
	Subject     string        `json:"subject,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Claims      []ClaimReport `json:"claims"`
	Settings    Config        `json:"settings"`
}

// Abstentions counts claims whose decision withheld a verdict
func (r *CheckReport) Abstentions() int {
	n := 0
	for _, c := range r.Claims {
		if c.Decision.Abstained {
			n++
		}
	}
	return n
}
