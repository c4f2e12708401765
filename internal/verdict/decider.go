// Package verdict gates whether curated evidence justifies a verdict.
package verdict

import (
	"math"

	"github.com/ppiankov/curator/internal/model"
)

// Confidence weights. Each component is in [0,1].
const (
	consensusWeight   = 0.50
	coverageWeight    = 0.25
	credibilityWeight = 0.25

	// originalResearchBonus is added when any curated item is original research
	originalResearchBonus = 5.0
)

// abstentionCeilings bound the confidence reported alongside each abstention
var abstentionCeilings = map[model.AbstentionReason]float64{
	model.ReasonInsufficientEvidence: 25,
	model.ReasonLowCredibility:       35,
	model.ReasonConflictingEvidence:  40,
}

// Decider renders a verdict or a structured abstention. It is pure and holds
// only its immutable thresholds.
type Decider struct {
	cfg model.AbstentionConfig
}

// NewDecider creates a decider with the given gates
func NewDecider(cfg model.AbstentionConfig) *Decider {
	return &Decider{cfg: cfg}
}

// Tally is the stance distribution of a curated evidence set
type Tally struct {
	Supporting         int
	Contradicting      int
	Neutral            int
	Total              int
	AverageCredibility float64
	OriginalResearch   bool
}

// Count tallies stance labels and credibility
func Count(evidence []model.EvidenceCandidate) Tally {
	t := Tally{Total: len(evidence)}
	var credSum float64
	for i := range evidence {
		switch evidence[i].Stance {
		case model.StanceSupport:
			t.Supporting++
		case model.StanceContradict:
			t.Contradicting++
		default:
			t.Neutral++
		}
		credSum += evidence[i].CredibilityScore
		if evidence[i].IsOriginalResearch {
			t.OriginalResearch = true
		}
	}
	if t.Total > 0 {
		t.AverageCredibility = credSum / float64(t.Total)
	}
	return t
}

// ConsensusStrength is the majority share among supporting and contradicting items
func (t Tally) ConsensusStrength() float64 {
	majority := max(t.Supporting, t.Contradicting)
	return float64(majority) / float64(max(1, t.Supporting+t.Contradicting))
}

// Decide evaluates the gates in order; the first failure becomes the abstention reason
func (d *Decider) Decide(evidence []model.EvidenceCandidate) model.VerdictDecision {
	return d.DecideTally(Count(evidence))
}

// DecideTally is Decide over a precomputed tally
func (d *Decider) DecideTally(t Tally) model.VerdictDecision {
	decision := model.VerdictDecision{Verdict: model.VerdictUncertain}

	var consensus float64
	if t.Total > 0 {
		consensus = t.ConsensusStrength()
		decision.ConsensusStrength = model.Float64(consensus)
	}
	confidence := d.confidence(t, consensus)

	reason, failed := d.failedGate(t, consensus)
	if failed {
		decision.Abstained = true
		decision.AbstentionReason = reason
		decision.Confidence = math.Min(confidence, abstentionCeilings[reason])
		return decision
	}

	decision.MinRequirementsMet = true
	decision.Confidence = confidence
	switch {
	case t.Supporting > t.Contradicting:
		decision.Verdict = model.VerdictSupported
	case t.Contradicting > t.Supporting:
		decision.Verdict = model.VerdictContradicted
	}
	return decision
}

func (d *Decider) failedGate(t Tally, consensus float64) (model.AbstentionReason, bool) {
	switch {
	case t.Total < d.cfg.MinSourcesForVerdict:
		return model.ReasonInsufficientEvidence, true
	case t.AverageCredibility < d.cfg.MinCredibilityThreshold:
		return model.ReasonLowCredibility, true
	case consensus < d.cfg.MinConsensusStrength:
		return model.ReasonConflictingEvidence, true
	}
	return "", false
}

// confidence rises with consensus, evidence count and average credibility
func (d *Decider) confidence(t Tally, consensus float64) float64 {
	coverage := 1.0
	if need := 2 * d.cfg.MinSourcesForVerdict; need > 0 {
		coverage = math.Min(1, float64(t.Total)/float64(need))
	}

	score := 100 * (consensusWeight*consensus + coverageWeight*coverage + credibilityWeight*t.AverageCredibility)
	if t.OriginalResearch {
		score += originalResearchBonus
	}
	return math.Max(0, math.Min(100, score))
}

// Abstain builds the decision for a claim that never reached curation
func Abstain(reason model.AbstentionReason) model.VerdictDecision {
	return model.VerdictDecision{
		Verdict:          model.VerdictUncertain,
		Abstained:        true,
		AbstentionReason: reason,
	}
}
