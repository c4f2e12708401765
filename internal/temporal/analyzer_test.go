package temporal

import (
	"testing"
	"time"

	"github.com/ppiankov/curator/internal/model"
)

func TestAnalyzeClaim(t *testing.T) {
	tests := []struct {
		text       string
		sensitive  bool
		window     string
		maxAge     int // -1 for none
		claimType  string
		markersLen int
	}{
		{"The president is currently in office", true, WindowLast30Days, 30, ClaimCurrentState, 1},
		{"Unemployment rose last week", true, WindowLast90Days, 90, ClaimHistoricalFact, 1},
		{"The law was passed in 2020", true, "year_2020", 365, ClaimHistoricalFact, 1},
		{"Inflation will exceed 5% next year", true, WindowFuture, -1, ClaimPrediction, 1},
		{"Water boils at 100 degrees Celsius at sea level", false, WindowTimeless, -1, ClaimTimelessFact, 0},
		{"Since 2019 the company has recently been today's leader", true, WindowLast30Days, 30, ClaimCurrentState, 3},
		{"Prices during 2018 were recently revised", true, WindowLast90Days, 90, ClaimHistoricalFact, 2},
		{"", false, WindowTimeless, -1, ClaimTimelessFact, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := AnalyzeClaim(tt.text)
			if got.IsTimeSensitive != tt.sensitive {
				t.Errorf("IsTimeSensitive = %v, want %v", got.IsTimeSensitive, tt.sensitive)
			}
			if got.TemporalWindow != tt.window {
				t.Errorf("TemporalWindow = %q, want %q", got.TemporalWindow, tt.window)
			}
			if tt.maxAge < 0 {
				if got.MaxEvidenceAgeDays != nil {
					t.Errorf("MaxEvidenceAgeDays = %d, want nil", *got.MaxEvidenceAgeDays)
				}
			} else if got.MaxEvidenceAgeDays == nil || *got.MaxEvidenceAgeDays != tt.maxAge {
				t.Errorf("MaxEvidenceAgeDays = %v, want %d", got.MaxEvidenceAgeDays, tt.maxAge)
			}
			if got.ClaimType != tt.claimType {
				t.Errorf("ClaimType = %q, want %q", got.ClaimType, tt.claimType)
			}
			if len(got.TemporalMarkers) != tt.markersLen {
				t.Errorf("TemporalMarkers = %v, want %d markers", got.TemporalMarkers, tt.markersLen)
			}
		})
	}
}

func TestFilterEvidenceByTime_CurrentClaim(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	f := NewFilterAt(func() time.Time { return now })
	analysis := AnalyzeClaim("The president is currently in office")

	evidence := []model.EvidenceCandidate{
		{URL: "https://a.com/old", PublishedDate: now.AddDate(0, 0, -60).Format("2006-01-02")},
		{URL: "https://a.com/fresh", PublishedDate: now.AddDate(0, 0, -10).Format("2006-01-02")},
		{URL: "https://a.com/undated"},
		{URL: "https://a.com/garbled", PublishedDate: "sometime last spring"},
	}

	out := f.FilterEvidenceByTime(evidence, analysis)

	got := make(map[string]bool)
	for _, ev := range out {
		got[ev.URL] = true
	}
	if got["https://a.com/old"] {
		t.Error("60-day-old item should be dropped")
	}
	for _, url := range []string{"https://a.com/fresh", "https://a.com/undated", "https://a.com/garbled"} {
		if !got[url] {
			t.Errorf("%s should be kept", url)
		}
	}
}

func TestFilterEvidenceByTime_Boundary(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	f := NewFilterAt(func() time.Time { return now })
	analysis := AnalyzeClaim("Prices are now falling")

	evidence := []model.EvidenceCandidate{
		{URL: "https://a.com/30", PublishedDate: now.AddDate(0, 0, -30).Format(time.RFC3339)},
		{URL: "https://a.com/31", PublishedDate: now.AddDate(0, 0, -31).Format(time.RFC3339)},
		{URL: "https://a.com/future", PublishedDate: now.AddDate(0, 0, 3).Format(time.RFC3339)},
	}
	out := f.FilterEvidenceByTime(evidence, analysis)
	if len(out) != 2 || out[0].URL != "https://a.com/30" || out[1].URL != "https://a.com/future" {
		t.Errorf("out = %v", out)
	}
}

func TestFilterEvidenceByTime_NotSensitive(t *testing.T) {
	f := NewFilterAt(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })
	evidence := []model.EvidenceCandidate{{URL: "https://a.com/1", PublishedDate: "1999-01-01"}}

	for _, claim := range []string{"Water is wet", "Rates will rise next year"} {
		out := f.FilterEvidenceByTime(evidence, AnalyzeClaim(claim))
		if len(out) != 1 {
			t.Errorf("%q: filtered %d items, want none", claim, 1-len(out))
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-05-06", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), true},
		{"2024-05-06T10:00:00Z", time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC), true},
		{"2024/05/06", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), true},
		{"05/06/2024", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), true},
		{"06-05-2024", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), true},
		{"May 6, 2024", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), true},
		{"6 May 2024", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), true},
		{"Spring 2021 edition", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"no date here", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
