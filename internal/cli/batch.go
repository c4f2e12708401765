package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/curator/internal/logging"
	"github.com/ppiankov/curator/internal/pipeline"
	"github.com/ppiankov/curator/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	listFile     string
	// noCache, noFooter, registryFile and the LLM flags are defined in check.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Check many fact-check files in parallel",
	Long: `Batch runs checks concurrently:
- Take check files as arguments, or read paths from a list file (one per line)
- Process files in parallel with configurable worker count
- Each check curates its claims with bounded parallelism
- Write a JSON and Markdown report per input file

Example:
  curator batch checks/*.json
  curator batch --list checks.txt --concurrency 8 --output-dir ./reports
  curator batch a.yaml b.yaml --timeout 5m --check-timeout 30s`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of checks run at once")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./curator-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&listFile, "list", "", "file listing check files, one per line")

	// Shared with check
	batchCmd.Flags().DurationVar(&checkTimeout, "check-timeout", 0, "per-check timeout (default from config)")
	batchCmd.Flags().StringVar(&registryFile, "registry", "", "ownership registry YAML replacing the built-in one")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable classification and stance caches")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "stance labeling provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "stance labeling model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && listFile == "" {
		return fmt.Errorf("no input: pass check files or --list")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, "check-timeout"); err != nil {
		return err
	}
	defer logging.Close()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Curator Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	if listFile != "" {
		fmt.Fprintf(os.Stderr, "  List file:    %s\n", listFile)
	}
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	processor := worker.NewBatchProcessor(p, concurrency)

	paths := args
	if listFile != "" {
		fmt.Fprintf(os.Stderr, "⚙️  Reading paths from list...\n")
		listed, err := worker.ReadPathsFromFile(listFile)
		if err != nil {
			return fmt.Errorf("read list: %w", err)
		}
		paths = append(paths, listed...)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d check files\n", len(paths))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Processing with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessFiles(ctx, paths)

	successCount := 0
	failureCount := 0
	abstained := 0
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	used := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		slug := uniqueSlug(used, sanitizeFilename(reportBaseName(result.Path)))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		successCount++
		abstained += result.Report.Abstentions()
		fmt.Fprintf(os.Stderr, "✓ %s (%d claims, %d abstained)\n",
			result.Path, len(result.Report.Claims), result.Report.Abstentions())
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:       %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:     %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:    %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Abstentions: %d\n", abstained)
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d checks failed", failureCount, len(results))
	}
	return nil
}

// reportBaseName is the input file name without directory or extension
func reportBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	if s == "" || s == "." || s == ".." {
		s = "report"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}

// uniqueSlug suffixes repeated names so reports from same-named inputs do not collide
func uniqueSlug(used map[string]int, slug string) string {
	n := used[slug]
	used[slug] = n + 1
	if n == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n+1)
}
