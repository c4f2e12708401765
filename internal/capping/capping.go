// Package capping bounds how much of a claim's evidence, and of a whole
// fact-check's evidence, any single domain may supply.
package capping

import (
	"math"
	"sort"

	"github.com/ppiankov/curator/internal/model"
	"github.com/ppiankov/curator/internal/util"
)

const (
	// highCredibility is the lower bound of the middle cap tier
	highCredibility = 0.8
	// minGlobalCap is the floor for the ratio-derived global limit
	minGlobalCap = 3
	// minStandardCap is the floor for domains below the high-credibility tier
	minStandardCap = 2
)

// Capper applies the local and global domain caps
type Capper struct {
	cfg model.CurationConfig
}

// NewCapper creates a capper from curation settings
func NewCapper(cfg model.CurationConfig) *Capper {
	return &Capper{cfg: cfg}
}

// DomainKey groups evidence by lowercased, www-stripped host
func DomainKey(ev *model.EvidenceCandidate) string {
	return util.Host(ev.URL)
}

// SortByScore returns a copy sorted by score descending. Ties keep input order.
func SortByScore(evidence []model.EvidenceCandidate) []model.EvidenceCandidate {
	out := model.CloneAll(evidence)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}

// DomainCap returns how many items a domain may contribute to one claim,
// given the best credibility among its items.
func (c *Capper) DomainCap(maxCredibility float64) int {
	target := c.cfg.TargetCount
	ratioCap := int(math.Floor(float64(target) * c.cfg.MaxDomainRatio))

	switch {
	case maxCredibility >= c.cfg.OutstandingCredibilityThreshold:
		return target
	case maxCredibility >= highCredibility:
		return max(1, min(c.cfg.MaxPerDomain, ratioCap))
	default:
		return max(minStandardCap, min(c.cfg.MaxPerDomain-1, ratioCap))
	}
}

// ApplyCaps admits items from a score-sorted list while each domain stays under
// its cap, stopping at the target count.
func (c *Capper) ApplyCaps(evidence []model.EvidenceCandidate) []model.EvidenceCandidate {
	if len(evidence) == 0 || c.cfg.TargetCount <= 0 {
		return []model.EvidenceCandidate{}
	}

	best := make(map[string]float64)
	for i := range evidence {
		d := DomainKey(&evidence[i])
		if cred, ok := best[d]; !ok || evidence[i].CredibilityScore > cred {
			best[d] = evidence[i].CredibilityScore
		}
	}
	caps := make(map[string]int, len(best))
	for d, cred := range best {
		caps[d] = c.DomainCap(cred)
	}

	out := make([]model.EvidenceCandidate, 0, min(len(evidence), c.cfg.TargetCount))
	counts := make(map[string]int, len(caps))
	for i := range evidence {
		if len(out) >= c.cfg.TargetCount {
			break
		}
		d := DomainKey(&evidence[i])
		if counts[d] >= caps[d] {
			continue
		}
		counts[d]++
		out = append(out, evidence[i].Clone())
	}
	return out
}

// EffectiveMax is the cross-claim limit per domain for a fact-check of total items
func EffectiveMax(total, globalMaxPerDomain int, globalMaxRatio float64) int {
	ratioCap := int(math.Floor(float64(total) * globalMaxRatio))
	return min(globalMaxPerDomain, max(minGlobalCap, ratioCap))
}

type tagged struct {
	position int
	ev       model.EvidenceCandidate
}

// ApplyGlobalCaps bounds each domain's share across all claims of one check.
// When no domain exceeds the limit the input map is returned as is.
func (c *Capper) ApplyGlobalCaps(byClaim map[int][]model.EvidenceCandidate) map[int][]model.EvidenceCandidate {
	positions := make([]int, 0, len(byClaim))
	for p := range byClaim {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	var flat []tagged
	counts := make(map[string]int)
	for _, p := range positions {
		for _, ev := range byClaim[p] {
			flat = append(flat, tagged{position: p, ev: ev})
			counts[DomainKey(&ev)]++
		}
	}

	limit := EffectiveMax(len(flat), c.cfg.GlobalMaxPerDomain, c.cfg.GlobalMaxRatio)
	exceeded := false
	for _, n := range counts {
		if n > limit {
			exceeded = true
			break
		}
	}
	if !exceeded {
		return byClaim
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].ev.Score() > flat[j].ev.Score()
	})

	out := make(map[int][]model.EvidenceCandidate, len(byClaim))
	for _, p := range positions {
		out[p] = []model.EvidenceCandidate{}
	}
	used := make(map[string]int, len(counts))
	for _, t := range flat {
		d := DomainKey(&t.ev)
		if used[d] >= limit {
			continue
		}
		used[d]++
		out[t.position] = append(out[t.position], t.ev.Clone())
	}
	return out
}
