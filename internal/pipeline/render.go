package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/curator/internal/model"
)

const footer = "_Generated by curator. Abstentions mean the evidence did not meet the minimum bar for a verdict; they are not a low-confidence verdict._"

// Renderer writes check reports as JSON, Markdown and a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.CheckReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.CheckReport, path string) error {
	var b strings.Builder
	r.WriteMarkdown(&b, report)
	return writeFile(path, []byte(b.String()))
}

// WriteMarkdown renders the Markdown report to w
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.CheckReport) {
	title := "Fact-check report"
	if report.Subject != "" {
		title += ": " + report.Subject
	}
	fmt.Fprintf(w, "# %s\n\n", title)
	fmt.Fprintf(w, "- Run: `%s`\n", report.ID)
	fmt.Fprintf(w, "- Checked: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "- Claims: %d (%d abstained)\n\n", len(report.Claims), report.Abstentions())

	for _, c := range report.Claims {
		fmt.Fprintf(w, "## Claim %d\n\n", c.Position)
		fmt.Fprintf(w, "> %s\n\n", c.Text)

		d := c.Decision
		if d.Abstained {
			fmt.Fprintf(w, "**Verdict:** %s (abstained: %s)\n\n", d.Verdict, d.AbstentionReason)
		} else {
			fmt.Fprintf(w, "**Verdict:** %s (confidence %.1f)\n\n", d.Verdict, d.Confidence)
		}
		if c.TimedOut {
			fmt.Fprintf(w, "Check deadline reached before this claim was curated.\n\n")
			continue
		}

		m := c.Outcome.Metrics
		fmt.Fprintf(w, "| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(w, "| Evidence | %d |\n", m.TotalEvidence)
		fmt.Fprintf(w, "| Support / contradict / neutral | %d / %d / %d |\n", m.Supporting, m.Contradicting, m.Neutral)
		fmt.Fprintf(w, "| Average credibility | %.2f |\n", m.AverageCredibility)
		fmt.Fprintf(w, "| Unique domains | %d |\n", m.UniqueDomains)
		fmt.Fprintf(w, "| Unique owners | %d |\n", m.UniqueOwners)
		fmt.Fprintf(w, "| Diversity | %.2f (%s) |\n", m.DiversityScore, passFail(m.DiversityPass))
		if d.ConsensusStrength != nil {
			fmt.Fprintf(w, "| Consensus | %.2f |\n", *d.ConsensusStrength)
		}
		fmt.Fprintf(w, "| Original research | %d |\n\n", m.OriginalResearch)

		if c.Temporal.IsTimeSensitive {
			fmt.Fprintf(w, "Time-sensitive claim (%s window, %d stale items dropped).\n\n", c.Temporal.TemporalWindow, c.StaleDropped)
		}

		if len(c.Outcome.Evidence) > 0 {
			fmt.Fprintf(w, "### Evidence\n\n")
			for i, ev := range c.Outcome.Evidence {
				label := ev.Title
				if label == "" {
					label = ev.URL
				}
				fmt.Fprintf(w, "%d. [%s](%s) - %s, %s, %s", i+1, escapeBrackets(label), ev.URL, ev.Stance, ev.SourceType, ownerLabel(ev))
				if ev.IsSyndicated {
					fmt.Fprintf(w, ", syndicated (%d copies)", len(ev.SyndicatedURLs))
				}
				fmt.Fprintf(w, "\n")
			}
			fmt.Fprintf(w, "\n")
		}

		if len(c.Rejected) > 0 {
			fmt.Fprintf(w, "### Rejected\n\n")
			for _, rej := range c.Rejected {
				fmt.Fprintf(w, "- %s (%s)\n", rej.Evidence.URL, rej.Reason)
			}
			fmt.Fprintf(w, "\n")
		}

		dropped := c.Dedup.ExactRemoved + c.Dedup.NearRemoved
		if dropped > 0 || c.LocalCapDropped > 0 || c.GlobalCapDropped > 0 {
			fmt.Fprintf(w, "Dropped: %d duplicates, %d over the domain cap, %d over the global cap.\n\n",
				dropped, c.LocalCapDropped, c.GlobalCapDropped)
		}
	}

	if r.includeFooter {
		fmt.Fprintf(w, "---\n\n%s\n", footer)
	}
}

// RenderSummary prints a short per-claim summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.CheckReport) {
	fmt.Fprintf(w, "\n═══════════════════════════════════════\n")
	if report.Subject != "" {
		fmt.Fprintf(w, "Subject: %s\n", report.Subject)
	}
	fmt.Fprintf(w, "Claims: %d  Abstained: %d\n", len(report.Claims), report.Abstentions())
	fmt.Fprintf(w, "═══════════════════════════════════════\n")

	for _, c := range report.Claims {
		d := c.Decision
		mark := "✓"
		detail := fmt.Sprintf("%s %.1f", d.Verdict, d.Confidence)
		if d.Abstained {
			mark = "✗"
			detail = fmt.Sprintf("abstained: %s", d.AbstentionReason)
		}
		fmt.Fprintf(w, "%s [%d] %s (%d sources)\n", mark, c.Position, detail, c.Outcome.Metrics.TotalEvidence)
	}
	fmt.Fprintln(w)
}

func ownerLabel(ev model.EvidenceCandidate) string {
	if ev.ParentCompany == "" {
		return string(ev.IndependenceFlag)
	}
	return fmt.Sprintf("%s (%s)", ev.ParentCompany, ev.IndependenceFlag)
}

func passFail(ok bool) string {
	if ok {
		return "pass"
	}
	return "below threshold"
}

func escapeBrackets(s string) string {
	return strings.NewReplacer("[", "\\[", "]", "\\]").Replace(s)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
