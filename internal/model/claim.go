package model

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Claim is a textual assertion together with the evidence retrieved for it
type Claim struct {
	Position int                 `json:"position" yaml:"position"` // Index within the fact-check
	Text     string              `json:"text" yaml:"text"`
	Evidence []EvidenceCandidate `json:"evidence" yaml:"evidence"`
}

// CheckInput is one fact-check: every claim and its raw evidence candidates
type CheckInput struct {
	Subject string  `json:"subject,omitempty" yaml:"subject,omitempty"`
	Claims  []Claim `json:"claims" yaml:"claims"`
}

// Validate enforces the boundary contract on every claim and candidate.
// Evidence inherits its claim's position when it carries none.
func (c *CheckInput) Validate() error {
	var result *multierror.Error
	seen := make(map[int]bool)

	for ci := range c.Claims {
		claim := &c.Claims[ci]
		if claim.Position < 0 {
			result = multierror.Append(result, fmt.Errorf("claim %d: %w", ci, ErrNegativePosition))
			continue
		}
		if seen[claim.Position] {
			result = multierror.Append(result, fmt.Errorf("claim %d: duplicate position %d", ci, claim.Position))
		}
		seen[claim.Position] = true

		for ei := range claim.Evidence {
			ev := &claim.Evidence[ei]
			if ev.ClaimPosition == 0 {
				ev.ClaimPosition = claim.Position
			}
			if ev.ClaimPosition != claim.Position {
				result = multierror.Append(result, fmt.Errorf("claim %d evidence %d: claim_position %d does not match claim", claim.Position, ei, ev.ClaimPosition))
				continue
			}
			if err := ev.Validate(); err != nil {
				result = multierror.Append(result, fmt.Errorf("claim %d evidence %d: %w", claim.Position, ei, err))
			}
		}
	}

	return result.ErrorOrNil()
}
