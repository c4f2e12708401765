package score

import (
	"regexp"

	"github.com/ppiankov/curator/internal/model"
	"github.com/ppiankov/curator/internal/util"
)

// UnknownParent is attached when the registry has no owner for a domain
const UnknownParent = "Unknown"

var (
	stateOwnerPattern     = regexp.MustCompile(`(?i)\bstate\b`)
	nonprofitOwnerPattern = regexp.MustCompile(`(?i)\b(non-?profit|not-for-profit|foundation|trusts?|charit(y|able)|cooperative|co-op)\b`)
)

// IndependenceOf derives the independence flag for an owner name
func IndependenceOf(parentName string) model.IndependenceFlag {
	switch {
	case stateOwnerPattern.MatchString(parentName):
		return model.StateFunded
	case nonprofitOwnerPattern.MatchString(parentName):
		return model.Independent
	default:
		return model.Corporate
	}
}

// EnrichIndependence attaches parent company, independence flag and cluster id.
// The input is not modified.
func (r *Registry) EnrichIndependence(evidence []model.EvidenceCandidate) []model.EvidenceCandidate {
	out := model.CloneAll(evidence)
	for i := range out {
		r.enrich(&out[i])
	}
	return out
}

func (r *Registry) enrich(ev *model.EvidenceCandidate) {
	host := util.Host(ev.URL)
	owner, ok := r.Lookup(host)

	switch {
	case ok:
		ev.ParentCompany = owner.Name
		ev.DomainClusterID = owner.ClusterID
		ev.IndependenceFlag = owner.Independence
		if ev.IndependenceFlag == "" {
			ev.IndependenceFlag = IndependenceOf(owner.Name)
		}
	default:
		ev.ParentCompany = UnknownParent
		ev.DomainClusterID = 0
		ev.IndependenceFlag = model.IndependenceUnset
	}

	// The state-media list outranks ownership data
	if r.IsStateMedia(host) {
		ev.IndependenceFlag = model.StateFunded
	}
}
