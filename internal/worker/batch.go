package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/curator/internal/model"
)

// Checker runs one fact-check from a check file
type Checker interface {
	CheckFile(ctx context.Context, path string) (*model.CheckReport, error)
}

// CheckJob represents a check-file job
type CheckJob struct {
	Path    string
	Checker Checker
}

// Execute runs the check
func (j *CheckJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &CheckResult{Path: j.Path, Error: err}
	}
	report, err := j.Checker.CheckFile(ctx, j.Path)
	return &CheckResult{Path: j.Path, Report: report, Error: err}
}

// CheckResult represents the result of a check job
type CheckResult struct {
	Path   string
	Report *model.CheckReport
	Error  error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many check files concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessFiles runs every check file. Results follow the order of paths.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*CheckResult {
	if len(paths) == 0 {
		return []*CheckResult{}
	}

	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &CheckJob{Path: path, Checker: b.checker}
	}

	results := NewPool(b.concurrency).Run(ctx, jobs)

	out := make([]*CheckResult, len(results))
	for i, result := range results {
		out[i] = result.(*CheckResult)
	}
	return out
}

// ProcessListFile reads check-file paths from a list file and runs them
func (b *BatchProcessor) ProcessListFile(ctx context.Context, listPath string) ([]*CheckResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read check list: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads paths from a file (one per line, # comments, duplicates dropped)
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}
