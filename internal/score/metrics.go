package score

import (
	"fmt"

	"github.com/ppiankov/curator/internal/model"
	"github.com/ppiankov/curator/internal/util"
)

// clusterKey groups evidence by owner cluster, falling back to the registered domain
func clusterKey(ev *model.EvidenceCandidate) string {
	if ev.DomainClusterID != 0 {
		return fmt.Sprintf("cluster:%d", ev.DomainClusterID)
	}
	return "domain:" + util.RegisteredDomain(ev.URL)
}

// DiversityScore is 1 - (largest cluster count / total). Empty evidence scores 0.
func DiversityScore(evidence []model.EvidenceCandidate) float64 {
	if len(evidence) == 0 {
		return 0
	}
	counts := make(map[string]int)
	maxCount := 0
	for i := range evidence {
		k := clusterKey(&evidence[i])
		counts[k]++
		if counts[k] > maxCount {
			maxCount = counts[k]
		}
	}
	return 1 - float64(maxCount)/float64(len(evidence))
}

// ComputeMetrics aggregates a curated evidence set
func ComputeMetrics(evidence []model.EvidenceCandidate, diversityThreshold float64) model.CurationMetrics {
	m := model.CurationMetrics{TotalEvidence: len(evidence)}
	if len(evidence) == 0 {
		return m
	}

	domains := make(map[string]int)
	owners := make(map[string]bool)
	var credSum float64
	maxDomain := 0

	for i := range evidence {
		ev := &evidence[i]
		host := util.Host(ev.URL)
		domains[host]++
		if domains[host] > maxDomain {
			maxDomain = domains[host]
		}
		if ev.ParentCompany != "" && ev.ParentCompany != UnknownParent {
			owners[ev.ParentCompany] = true
		}
		credSum += ev.CredibilityScore
		if ev.IsOriginalResearch {
			m.OriginalResearch++
		}
		switch ev.Stance {
		case model.StanceSupport:
			m.Supporting++
		case model.StanceContradict:
			m.Contradicting++
		default:
			m.Neutral++
		}
	}

	m.UniqueDomains = len(domains)
	m.MaxDomainRatio = float64(maxDomain) / float64(len(evidence))
	m.DiversityScore = DiversityScore(evidence)
	m.DiversityPass = m.DiversityScore >= diversityThreshold
	m.UniqueOwners = len(owners)
	m.AverageCredibility = credSum / float64(len(evidence))
	return m
}
