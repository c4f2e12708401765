// Package temporal classifies how time-sensitive a claim is and drops
// evidence too old to speak to it.
package temporal

import (
	"regexp"
	"time"

	"github.com/ppiankov/curator/internal/model"
)

// Windows and claim types reported in a TemporalAnalysis
const (
	WindowLast30Days = "last_30_days"
	WindowLast90Days = "last_90_days"
	WindowFuture     = "future"
	WindowTimeless   = "timeless"

	ClaimCurrentState   = "current_state"
	ClaimHistoricalFact = "historical_fact"
	ClaimPrediction     = "prediction"
	ClaimTimelessFact   = "timeless_fact"
)

// Marker names a family of temporal expressions
type Marker string

const (
	MarkerPresent      Marker = "present"
	MarkerRecentPast   Marker = "recent_past"
	MarkerSpecificYear Marker = "specific_year"
	MarkerFuture       Marker = "future"
)

var markerPatterns = []struct {
	marker   Marker
	patterns []*regexp.Regexp
}{
	{MarkerPresent, compile(
		`\b(is|are|remains?) (currently|now|still)\b`, `\bcurrently\b`, `\btoday\b`, `\bright now\b`,
		`\bnow\b`, `\bat present\b`, `\bpresently\b`, `\bas of (today|now)\b`, `\bthis (week|month)\b`,
	)},
	{MarkerRecentPast, compile(
		`\byesterday\b`, `\blast (week|month|few days)\b`, `\brecently\b`, `\bearlier this (week|month|year)\b`,
		`\bjust (announced|released|reported|passed)\b`, `\bpast (few|couple of) (days|weeks)\b`,
	)},
	{MarkerSpecificYear, compile(`\b(?:in|during|since|by|throughout|of) (1[89]\d{2}|2\d{3})\b`)},
	{MarkerFuture, compile(
		`\bwill\b`, `\bgoing to\b`, `\bpredict(s|ed|ion)?\b`, `\bforecast(s|ed)?\b`, `\bexpected to\b`,
		`\bnext (week|month|year)\b`, `\bupcoming\b`,
	)},
}

var specificYearPattern = markerPatterns[2].patterns[0]

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// AnalyzeClaim classifies a claim's time sensitivity.
// Window priority: present, recent past, future, specific year.
func AnalyzeClaim(text string) model.TemporalAnalysis {
	matched := make(map[Marker]bool)
	var markers []string
	for _, family := range markerPatterns {
		for _, p := range family.patterns {
			if p.MatchString(text) {
				matched[family.marker] = true
				markers = append(markers, string(family.marker))
				break
			}
		}
	}

	analysis := model.TemporalAnalysis{TemporalMarkers: markers}
	switch {
	case matched[MarkerPresent]:
		analysis.IsTimeSensitive = true
		analysis.TemporalWindow = WindowLast30Days
		analysis.MaxEvidenceAgeDays = days(30)
		analysis.ClaimType = ClaimCurrentState
	case matched[MarkerRecentPast]:
		analysis.IsTimeSensitive = true
		analysis.TemporalWindow = WindowLast90Days
		analysis.MaxEvidenceAgeDays = days(90)
		analysis.ClaimType = ClaimHistoricalFact
	case matched[MarkerFuture]:
		analysis.IsTimeSensitive = true
		analysis.TemporalWindow = WindowFuture
		analysis.ClaimType = ClaimPrediction
	case matched[MarkerSpecificYear]:
		year := specificYearPattern.FindStringSubmatch(text)[1]
		analysis.IsTimeSensitive = true
		analysis.TemporalWindow = "year_" + year
		analysis.MaxEvidenceAgeDays = days(365)
		analysis.ClaimType = ClaimHistoricalFact
	default:
		analysis.TemporalWindow = WindowTimeless
		analysis.ClaimType = ClaimTimelessFact
	}
	return analysis
}

func days(n int) *int {
	return &n
}

// Filter drops evidence older than a claim's tolerance window
type Filter struct {
	now func() time.Time
}

// NewFilter creates a filter that measures age against the wall clock
func NewFilter() *Filter {
	return &Filter{now: time.Now}
}

// NewFilterAt creates a filter with a fixed reference clock
func NewFilterAt(now func() time.Time) *Filter {
	return &Filter{now: now}
}

// FilterEvidenceByTime keeps items within analysis.MaxEvidenceAgeDays.
// Items without a parseable date are kept.
func (f *Filter) FilterEvidenceByTime(evidence []model.EvidenceCandidate, analysis model.TemporalAnalysis) []model.EvidenceCandidate {
	if !analysis.IsTimeSensitive || analysis.MaxEvidenceAgeDays == nil {
		return model.CloneAll(evidence)
	}

	now := f.now()
	limit := *analysis.MaxEvidenceAgeDays
	out := make([]model.EvidenceCandidate, 0, len(evidence))
	for _, ev := range evidence {
		published, ok := ParseDate(ev.PublishedDate)
		if ok && ageDays(now, published) > limit {
			continue
		}
		out = append(out, ev.Clone())
	}
	return out
}

func ageDays(now, published time.Time) int {
	return int(now.Sub(published).Hours() / 24)
}
