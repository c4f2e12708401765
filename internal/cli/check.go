package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/curator/internal/logging"
	"github.com/ppiankov/curator/internal/model"
	"github.com/ppiankov/curator/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	checkTimeout time.Duration
	registryFile string
	noCache      bool
	noFooter     bool
	llmProvider  string
	llmModel     string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Curate a fact-check's evidence and decide a verdict per claim",
	Long: `Check reads a fact-check file (JSON or YAML) holding claims and the evidence
retrieved for each, and:
- Rejects educational and low-quality sources
- Collapses duplicate and syndicated evidence
- Classifies source types and attaches ownership and independence data
- Drops evidence too old for time-sensitive claims
- Caps each domain's share per claim and across the check
- Labels stance with an optional NLI model
- Decides a verdict or abstains with a reason

Example:
  curator check claims.json
  curator check claims.yaml --json report.json --md report.md
  curator check claims.json --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Curation flags
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0, "whole-check timeout; unstarted claims abstain (default from config)")
	checkCmd.Flags().StringVar(&registryFile, "registry", "", "ownership registry YAML replacing the built-in one")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable classification and stance caches")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "stance labeling provider (openai, ollama); empty disables labeling")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "stance labeling model name")
}

// applyFlags layers explicitly set command flags over the loaded config.
// timeoutFlag names the flag bound to the per-check timeout.
func applyFlags(cmd *cobra.Command, cfg *model.Config, timeoutFlag string) error {
	flags := cmd.Flags()
	if flags.Changed(timeoutFlag) {
		cfg.Concurrency.CheckTimeout = checkTimeout
	}
	if flags.Changed("registry") {
		cfg.RegistryFile = registryFile
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	return applyLLMEnv(&cfg.LLM)
}

// applyLLMEnv fills provider credentials from the conventional environment variables
func applyLLMEnv(lc *model.LLMConfig) error {
	switch lc.Provider {
	case "openai":
		if lc.APIKey == "" {
			lc.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if lc.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if lc.Model == "" {
			lc.Model = "gpt-4o-mini"
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && lc.BaseURL == "" {
			lc.BaseURL = baseURL
		}
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, "timeout"); err != nil {
		return err
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", file)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", cfg.Concurrency.CheckTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "Stance labeling: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	report, err := p.CheckFile(ctx, file)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if cfg.Output.Verbose {
		for _, c := range report.Claims {
			fmt.Fprintf(os.Stderr, "✓ Claim %d: %d rejected, %d duplicates, %d stale, %d capped, %d kept\n",
				c.Position, len(c.Rejected), c.Dedup.ExactRemoved+c.Dedup.NearRemoved,
				c.StaleDropped, c.LocalCapDropped+c.GlobalCapDropped, len(c.Outcome.Evidence))
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	p.Renderer().RenderSummary(os.Stdout, report)

	return nil
}
