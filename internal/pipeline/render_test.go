package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/curator/internal/model"
)

func sampleReport() *model.CheckReport {
	consensus := 0.75
	return &model.CheckReport{
		ID:          "5b0c6f1e-0d6e-4f43-9a51-2f4f7f1f8d11",
		Subject:     "boiling point",
		StartedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC),
		Claims: []model.ClaimReport{
			{
				Position: 0,
				Text:     "Water boils at one hundred degrees Celsius",
				Outcome: model.CurationOutcome{
					Evidence: []model.EvidenceCandidate{{
						URL:              "https://alpha.com/a",
						Title:            "Boiling [point]",
						Stance:           model.StanceSupport,
						SourceType:       model.SourceUnknown,
						ParentCompany:    "Unknown",
						IndependenceFlag: model.IndependenceUnset,
						IsSyndicated:     true,
						SyndicatedURLs:   []string{"https://mirror.com/a"},
					}},
					Metrics: model.CurationMetrics{TotalEvidence: 4, Supporting: 3, Contradicting: 1},
				},
				Decision: model.VerdictDecision{
					Verdict:            model.VerdictSupported,
					Confidence:         71.5,
					MinRequirementsMet: true,
					ConsensusStrength:  &consensus,
				},
				Rejected: []model.Rejection{{
					Evidence: model.EvidenceCandidate{URL: "https://www.reddit.com/r/x"},
					Reason:   "low_quality_source: q&a site",
				}},
				Dedup: model.DedupStats{ExactRemoved: 1},
			},
			{
				Position: 1,
				Text:     "A claim the deadline skipped",
				Outcome:  model.CurationOutcome{ClaimPosition: 1, Evidence: []model.EvidenceCandidate{}},
				Decision: model.VerdictDecision{
					Verdict:          model.VerdictUncertain,
					Abstained:        true,
					AbstentionReason: model.ReasonInsufficientEvidence,
				},
				TimedOut: true,
			},
		},
	}
}

func TestRenderer_WriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(true).WriteMarkdown(&buf, sampleReport())
	md := buf.String()

	for _, want := range []string{
		"# Fact-check report: boiling point",
		"- Claims: 2 (1 abstained)",
		"## Claim 0",
		"**Verdict:** supported (confidence 71.5)",
		"| Consensus | 0.75 |",
		"[Boiling \\[point\\]](https://alpha.com/a)",
		"syndicated (1 copies)",
		"- https://www.reddit.com/r/x (low_quality_source: q&a site)",
		"Dropped: 1 duplicates",
		"**Verdict:** uncertain (abstained: insufficient_evidence)",
		"Check deadline reached",
		footer,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestRenderer_NoFooter(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).WriteMarkdown(&buf, sampleReport())
	if strings.Contains(buf.String(), footer) {
		t.Error("footer rendered although disabled")
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := NewRenderer(true).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got model.CheckReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if got.ID != sampleReport().ID || len(got.Claims) != 2 {
		t.Errorf("round trip lost data: id=%s claims=%d", got.ID, len(got.Claims))
	}
	if !strings.Contains(string(data), `"consensus_strength": null`) {
		t.Error("abstained claim without consensus should serialise consensus_strength as null")
	}
}

func TestRenderer_RenderMarkdownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(true).RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Fact-check report") {
		t.Errorf("unexpected markdown start: %q", string(data[:min(40, len(data))]))
	}
}

func TestRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(true).RenderSummary(&buf, sampleReport())
	out := buf.String()

	if !strings.Contains(out, "✓ [0] supported 71.5 (4 sources)") {
		t.Errorf("summary missing verdict line:\n%s", out)
	}
	if !strings.Contains(out, "✗ [1] abstained: insufficient_evidence") {
		t.Errorf("summary missing abstention line:\n%s", out)
	}
}
