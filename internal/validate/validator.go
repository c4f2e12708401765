package validate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/curator/internal/model"
	"github.com/ppiankov/curator/internal/util"
)

// Validator rejects evidence from content classes unsuited to fact-checking
type Validator struct {
	ruleSets  []ruleSet
	allowList []string
}

// NewValidator creates a validator with the built-in rules
func NewValidator() *Validator {
	return &Validator{
		ruleSets:  defaultRuleSets(),
		allowList: educationAuthorities,
	}
}

// Validate splits evidence into kept and rejected items. Order is preserved and
// each rejected item carries exactly one reason.
func (v *Validator) Validate(evidence []model.EvidenceCandidate) ([]model.EvidenceCandidate, []model.Rejection) {
	kept := make([]model.EvidenceCandidate, 0, len(evidence))
	var rejected []model.Rejection

	for _, ev := range evidence {
		if reason, ok := v.Check(ev); ok {
			rejected = append(rejected, model.Rejection{Evidence: ev.Clone(), Reason: reason})
			continue
		}
		kept = append(kept, ev.Clone())
	}
	return kept, rejected
}

// Check returns the rejection reason for one item, if any
func (v *Validator) Check(ev model.EvidenceCandidate) (string, bool) {
	combined := strings.ToLower(strings.Join([]string{ev.Title, ev.URL, ev.Source}, " "))
	if strings.TrimSpace(combined) == "" {
		return "", false
	}

	for _, set := range v.ruleSets {
		if set.family == FamilyURLStructure && v.isEducationAuthority(ev.URL) {
			continue
		}
		for _, rl := range set.rules {
			if rl.re.MatchString(combined) {
				return fmt.Sprintf("%s: %s", set.family, rl.label), true
			}
		}
	}
	return "", false
}

func (v *Validator) isEducationAuthority(rawURL string) bool {
	host := util.Host(rawURL)
	for _, domain := range v.allowList {
		if util.MatchesDomain(host, domain) {
			return true
		}
	}
	return false
}
