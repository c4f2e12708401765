package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/curator/internal/cache"
	"github.com/ppiankov/curator/internal/capping"
	"github.com/ppiankov/curator/internal/dedup"
	"github.com/ppiankov/curator/internal/llm"
	"github.com/ppiankov/curator/internal/logging"
	"github.com/ppiankov/curator/internal/model"
	"github.com/ppiankov/curator/internal/score"
	"github.com/ppiankov/curator/internal/temporal"
	"github.com/ppiankov/curator/internal/validate"
	"github.com/ppiankov/curator/internal/verdict"
	"github.com/ppiankov/curator/internal/worker"
)

// Pipeline orchestrates curation and verdict decisions for a fact-check
type Pipeline struct {
	validator *validate.Validator
	dedup     *dedup.Deduplicator
	scorer    *score.Scorer
	filter    *temporal.Filter
	capper    *capping.Capper
	decider   *verdict.Decider
	labeler   llm.StanceLabeler // Optional NLI collaborator (nil if disabled)
	pool      *worker.Pool
	renderer  *Renderer
	now       func() time.Time
	config    *model.Config
}

type options struct {
	labeler    llm.StanceLabeler
	labelerSet bool
	registry   *score.Registry
	now        func() time.Time
}

// Option customises a Pipeline
type Option func(*options)

// WithLabeler uses l for stance labeling instead of the configured provider.
// A nil labeler disables labeling.
func WithLabeler(l llm.StanceLabeler) Option {
	return func(o *options) {
		o.labeler = l
		o.labelerSet = true
	}
}

// WithRegistry uses reg instead of the configured ownership registry
func WithRegistry(reg *score.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithClock fixes the reference time for evidence age and report timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewPipeline creates a new pipeline with the given configuration.
// Invalid configuration, a malformed registry file or an unknown labeler
// provider fail here rather than during a check.
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	registry := o.registry
	if registry == nil && cfg.RegistryFile != "" {
		reg, err := score.LoadRegistryFile(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		registry = reg
	}

	var memo cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled {
		memo = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
	}

	labeler := o.labeler
	if !o.labelerSet {
		l, err := llm.NewLabeler(llm.ConfigFromModel(cfg.LLM, cfg.RateLimiting))
		if err != nil {
			return nil, fmt.Errorf("stance labeler: %w", err)
		}
		labeler = l
	}
	if labeler != nil && cfg.Cache.Enabled {
		labeler = llm.NewCachingLabeler(labeler,
			cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL),
			cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		validator: validate.NewValidator(),
		dedup:     dedup.NewDeduplicator(cfg.Curation.TextSimilarityThreshold),
		scorer:    score.NewScorer(score.NewClassifier(score.WithMemo(memo)), registry),
		filter:    temporal.NewFilterAt(o.now),
		capper:    capping.NewCapper(cfg.Curation),
		decider:   verdict.NewDecider(cfg.Abstention),
		labeler:   labeler,
		pool:      worker.NewPool(cfg.Concurrency.MaxConcurrentVerifications),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		now:       o.now,
		config:    cfg,
	}, nil
}

// Registry returns the ownership registry used for scoring
func (p *Pipeline) Registry() *score.Registry {
	return p.scorer.Registry()
}

// Check curates every claim's evidence and decides a verdict per claim.
// Claims not started before the check timeout abstain with insufficient evidence.
func (p *Pipeline) Check(ctx context.Context, input *model.CheckInput) (*model.CheckReport, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid check input: %w", err)
	}

	report := &model.CheckReport{
		ID:        uuid.NewString(),
		Subject:   input.Subject,
		StartedAt: p.now().UTC(),
		Settings:  *p.config,
	}

	if timeout := p.config.Concurrency.CheckTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// 1. Per-claim curation, bounded by max concurrent verifications
	jobs := make([]worker.Job, len(input.Claims))
	for i, claim := range input.Claims {
		jobs[i] = &claimJob{pipeline: p, claim: claim}
	}
	results := p.pool.Run(ctx, jobs)

	claims := make([]model.ClaimReport, len(results))
	byClaim := make(map[int][]model.EvidenceCandidate, len(results))
	for i, r := range results {
		res := r.(*claimResult)
		claims[i] = res.report
		if !res.report.TimedOut {
			byClaim[res.report.Position] = res.evidence
		}
	}

	// 2. Global pass starts only once every claim has finished
	capped := p.capper.ApplyGlobalCaps(byClaim)
	for i := range claims {
		c := &claims[i]
		if c.TimedOut {
			continue
		}
		kept := capped[c.Position]
		c.GlobalCapDropped = len(byClaim[c.Position]) - len(kept)
		c.Outcome.Evidence = kept
	}

	// 3. Stance labeling on the narrowed sets
	p.labelStances(ctx, claims)

	// 4. Aggregates and decisions
	for i := range claims {
		p.decide(&claims[i])
	}

	report.Claims = claims
	report.CompletedAt = p.now().UTC()

	logging.Info("check complete",
		"id", report.ID,
		"claims", len(claims),
		"abstained", report.Abstentions(),
		"duration", report.CompletedAt.Sub(report.StartedAt))

	return report, nil
}

// CheckFile loads a check file and runs it
func (p *Pipeline) CheckFile(ctx context.Context, path string) (*model.CheckReport, error) {
	input, err := LoadCheckFile(path)
	if err != nil {
		return nil, err
	}
	return p.Check(ctx, input)
}

// curateClaim runs the local stage chain for one claim
func (p *Pipeline) curateClaim(claim model.Claim) (model.ClaimReport, []model.EvidenceCandidate) {
	report := model.ClaimReport{
		Position: claim.Position,
		Text:     claim.Text,
	}

	valid, rejected := p.validator.Validate(claim.Evidence)
	report.Rejected = rejected

	unique, stats := p.dedup.Deduplicate(valid)
	report.Dedup = stats

	scored := p.scorer.Annotate(unique)

	analysis := temporal.AnalyzeClaim(claim.Text)
	report.Temporal = analysis
	fresh := p.filter.FilterEvidenceByTime(scored, analysis)
	report.StaleDropped = len(scored) - len(fresh)

	ranked := capping.SortByScore(fresh)
	capped := p.capper.ApplyCaps(ranked)
	report.LocalCapDropped = len(ranked) - len(capped)

	logging.Debug("claim curated",
		"position", claim.Position,
		"input", len(claim.Evidence),
		"rejected", len(rejected),
		"duplicates", stats.ExactRemoved+stats.NearRemoved,
		"stale", report.StaleDropped,
		"capped", report.LocalCapDropped,
		"kept", len(capped))

	return report, capped
}

// labelStances asks the labeler for every item that arrived without a stance.
// A failed claim keeps its items neutral.
func (p *Pipeline) labelStances(ctx context.Context, claims []model.ClaimReport) {
	if p.labeler == nil {
		return
	}

	var g errgroup.Group
	g.SetLimit(max(1, p.config.LLM.Workers))

	for i := range claims {
		c := &claims[i]
		if c.TimedOut {
			continue
		}

		var pending []int
		for j, ev := range c.Outcome.Evidence {
			if ev.Stance == "" {
				pending = append(pending, j)
			}
		}
		if len(pending) == 0 {
			continue
		}

		g.Go(func() error {
			req := llm.LabelRequest{Claim: c.Text}
			for _, j := range pending {
				req.Evidence = append(req.Evidence, c.Outcome.Evidence[j])
			}

			labels, err := p.labeler.Label(ctx, req)
			if err == nil && len(labels) != len(pending) {
				err = fmt.Errorf("got %d labels for %d items", len(labels), len(pending))
			}
			if err != nil {
				logging.Warn("stance labeling failed", "claim", c.Position, "labeler", p.labeler.Name(), "err", err)
				return nil
			}

			for k, j := range pending {
				c.Outcome.Evidence[j].Stance = labels[k].Stance
				c.Outcome.Evidence[j].StanceConfidence = labels[k].Confidence
			}
			return nil
		})
	}

	_ = g.Wait()
}

// decide fills the outcome aggregates and the verdict decision
func (p *Pipeline) decide(c *model.ClaimReport) {
	c.Outcome.ClaimPosition = c.Position
	if c.Outcome.Evidence == nil {
		c.Outcome.Evidence = []model.EvidenceCandidate{}
	}

	if c.TimedOut {
		c.Decision = verdict.Abstain(model.ReasonInsufficientEvidence)
		return
	}

	for j := range c.Outcome.Evidence {
		if c.Outcome.Evidence[j].Stance == "" {
			c.Outcome.Evidence[j].Stance = model.StanceNeutral
		}
	}

	c.Outcome.Metrics = score.ComputeMetrics(c.Outcome.Evidence, p.config.Curation.DiversityThreshold)
	c.Decision = p.decider.Decide(c.Outcome.Evidence)
}

// claimJob curates one claim on the worker pool
type claimJob struct {
	pipeline *Pipeline
	claim    model.Claim
}

type claimResult struct {
	report   model.ClaimReport
	evidence []model.EvidenceCandidate
}

func (r *claimResult) GetError() error {
	return nil
}

// Execute skips the claim once the check deadline has passed
func (j *claimJob) Execute(ctx context.Context) worker.Result {
	if ctx.Err() != nil {
		logging.Warn("check deadline reached, abstaining", "claim", j.claim.Position)
		return &claimResult{report: model.ClaimReport{
			Position: j.claim.Position,
			Text:     j.claim.Text,
			TimedOut: true,
		}}
	}

	report, evidence := j.pipeline.curateClaim(j.claim)
	return &claimResult{report: report, evidence: evidence}
}

// RenderReport renders the report to the requested outputs and prints a summary
func (p *Pipeline) RenderReport(report *model.CheckReport, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			logging.Info("wrote JSON", "path", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			logging.Info("wrote Markdown", "path", mdPath)
		}
	}

	return nil
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
