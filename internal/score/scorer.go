package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/curator/internal/logging"
	"github.com/ppiankov/curator/internal/model"
)

// Weights for the combined ranking score
const (
	RelevanceWeight   = 0.6
	CredibilityWeight = 0.4
)

// Scorer annotates evidence with source type, credibility and independence
type Scorer struct {
	classifier *Classifier
	registry   *Registry
}

// NewScorer creates a scorer. Nil arguments select the built-in classifier and registry.
func NewScorer(classifier *Classifier, registry *Registry) *Scorer {
	if classifier == nil {
		classifier = NewClassifier()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Scorer{classifier: classifier, registry: registry}
}

// Registry returns the ownership registry in use
func (s *Scorer) Registry() *Registry {
	return s.registry
}

// Annotate classifies every item, applies the credibility boost, attaches
// ownership data and fills the combined score when it is unset.
// A failure on one item falls back to unknown and never aborts the batch.
func (s *Scorer) Annotate(evidence []model.EvidenceCandidate) []model.EvidenceCandidate {
	out := s.registry.EnrichIndependence(evidence)
	for i := range out {
		ev := &out[i]
		res := s.safeClassify(ev)

		ev.SourceType = res.SourceType
		ev.PrimaryIndicators = res.Indicators
		ev.IsOriginalResearch = res.IsOriginalResearch
		ev.CredibilityScore = clamp01(ev.CredibilityScore + res.CredibilityBoost)

		if ev.CombinedScore == nil {
			ev.CombinedScore = model.Float64(CombinedScore(ev.RelevanceScore, ev.CredibilityScore))
		}
		ev.EnsureDefaults()
	}
	return out
}

func (s *Scorer) safeClassify(ev *model.EvidenceCandidate) (res SourceTypeResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("source classification failed", "url", ev.URL, "err", fmt.Sprint(r))
			res = UnknownResult()
		}
	}()
	return s.classifier.Classify(ev.URL, ev.Title, ev.Body())
}

// CombinedScore weights relevance and credibility into one ranking score
func CombinedScore(relevance, credibility float64) float64 {
	return clamp01(RelevanceWeight*relevance + CredibilityWeight*credibility)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
