package dedup

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/ppiankov/curator/internal/model"
)

// DefaultSimilarityThreshold is the near-duplicate cutoff
const DefaultSimilarityThreshold = 0.85

// Deduplicator collapses exact and near-duplicate evidence and flags syndication
type Deduplicator struct {
	threshold float64
}

// NewDeduplicator creates a deduplicator. Non-positive thresholds use the default.
func NewDeduplicator(threshold float64) *Deduplicator {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Deduplicator{threshold: threshold}
}

// Deduplicate removes duplicates in a single left-to-right pass. The first
// occurrence always survives. When a dropped copy lives at another URL the
// survivor is marked syndicated and records that URL.
func (d *Deduplicator) Deduplicate(evidence []model.EvidenceCandidate) ([]model.EvidenceCandidate, model.DedupStats) {
	stats := model.DedupStats{Input: len(evidence)}

	if len(evidence) <= 1 {
		out := model.CloneAll(evidence)
		for i := range out {
			out[i].ContentHash = ContentHash(Normalize(out[i].Body()))
		}
		stats.Output = len(out)
		return out, stats
	}

	// Stage 1: exact digest
	type entry struct {
		item       model.EvidenceCandidate
		normalized string
	}
	var unique []entry
	firstByHash := make(map[string]int)

	for _, ev := range evidence {
		item := ev.Clone()
		normalized := Normalize(item.Body())
		item.ContentHash = ContentHash(normalized)

		if idx, seen := firstByHash[item.ContentHash]; seen {
			stats.ExactRemoved++
			d.recordDuplicate(&unique[idx].item, item, &stats)
			continue
		}

		firstByHash[item.ContentHash] = len(unique)
		unique = append(unique, entry{item: item, normalized: normalized})
	}

	// Stage 2: near-duplicate similarity against everything already accepted
	accepted := make([]entry, 0, len(unique))
	for _, cand := range unique {
		best, bestSim := -1, 0.0
		for i := range accepted {
			sim := Similarity(cand.normalized, accepted[i].normalized)
			if sim >= d.threshold && sim > bestSim {
				best, bestSim = i, sim
			}
		}

		if best >= 0 {
			stats.NearRemoved++
			d.recordDuplicate(&accepted[best].item, cand.item, &stats)
			continue
		}
		accepted = append(accepted, cand)
	}

	out := make([]model.EvidenceCandidate, len(accepted))
	for i, e := range accepted {
		out[i] = e.item
	}
	stats.Output = len(out)
	return out, stats
}

// recordDuplicate annotates the survivor and keeps the dropped copy for audit
func (d *Deduplicator) recordDuplicate(kept *model.EvidenceCandidate, dropped model.EvidenceCandidate, stats *model.DedupStats) {
	if dropped.URL != kept.URL {
		kept.IsSyndicated = true
		kept.SyndicatedURLs = appendUnique(kept.SyndicatedURLs, dropped.URL)
		dropped.IsSyndicated = true
		dropped.OriginalSourceURL = kept.URL
		stats.SyndicatedPairs = append(stats.SyndicatedPairs, dropped.URL+" -> "+kept.URL)
	}
	stats.Dropped = append(stats.Dropped, dropped)
}

// Similarity is the character-level sequence-matcher ratio of two strings, in [0,1]
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
