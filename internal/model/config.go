package model

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Config is the complete curator configuration
type Config struct {
	Curation     CurationConfig    `json:"curation" yaml:"curation" mapstructure:"curation"`
	Abstention   AbstentionConfig  `json:"abstention" yaml:"abstention" mapstructure:"abstention"`
	Concurrency  ConcurrencyConfig `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	LLM          LLMConfig         `json:"llm" yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig       `json:"cache" yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `json:"rate_limiting" yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig      `json:"output" yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig     `json:"logging" yaml:"logging" mapstructure:"logging"`
	RegistryFile string            `json:"registry_file,omitempty" yaml:"registry_file" mapstructure:"registry_file"`
}

// CurationConfig controls deduplication, capping and diversity
type CurationConfig struct {
	TargetCount                     int     `json:"target_count" yaml:"target_count" mapstructure:"target_count"`
	MaxPerDomain                    int     `json:"max_per_domain" yaml:"max_per_domain" mapstructure:"max_per_domain"`
	MaxDomainRatio                  float64 `json:"max_domain_ratio" yaml:"max_domain_ratio" mapstructure:"max_domain_ratio"`
	OutstandingCredibilityThreshold float64 `json:"outstanding_credibility_threshold" yaml:"outstanding_credibility_threshold" mapstructure:"outstanding_credibility_threshold"`
	GlobalMaxPerDomain              int     `json:"global_max_per_domain" yaml:"global_max_per_domain" mapstructure:"global_max_per_domain"`
	GlobalMaxRatio                  float64 `json:"global_max_ratio" yaml:"global_max_ratio" mapstructure:"global_max_ratio"`
	DiversityThreshold              float64 `json:"diversity_threshold" yaml:"diversity_threshold" mapstructure:"diversity_threshold"`
	TextSimilarityThreshold         float64 `json:"text_similarity_threshold" yaml:"text_similarity_threshold" mapstructure:"text_similarity_threshold"`
}

// AbstentionConfig holds the verdict gates. Passed by value into the decider.
type AbstentionConfig struct {
	MinSourcesForVerdict    int     `json:"min_sources_for_verdict" yaml:"min_sources_for_verdict" mapstructure:"min_sources_for_verdict"`
	MinCredibilityThreshold float64 `json:"min_credibility_threshold" yaml:"min_credibility_threshold" mapstructure:"min_credibility_threshold"`
	MinConsensusStrength    float64 `json:"min_consensus_strength" yaml:"min_consensus_strength" mapstructure:"min_consensus_strength"`
}

// ConcurrencyConfig bounds per-claim parallelism
type ConcurrencyConfig struct {
	MaxConcurrentVerifications int           `json:"max_concurrent_verifications" yaml:"max_concurrent_verifications" mapstructure:"max_concurrent_verifications"`
	CheckTimeout               time.Duration `json:"check_timeout" yaml:"check_timeout" mapstructure:"check_timeout"`
}

// LLMConfig configures the stance labeling collaborator
type LLMConfig struct {
	Provider  string `json:"provider" yaml:"provider" mapstructure:"provider"` // "openai", "ollama", "" (disabled)
	Model     string `json:"model" yaml:"model" mapstructure:"model"`
	APIKey    string `json:"-" yaml:"-" mapstructure:"api_key"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `json:"timeout" yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
	Workers   int    `json:"workers" yaml:"workers" mapstructure:"workers"`

	HTTPProxy  string `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures classification and stance-label caches
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `json:"dir" yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig throttles outbound NLI requests
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `json:"burst_size" yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer" mapstructure:"include_footer"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"` // debug, info, warn, error
	File  string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// DefaultConfig returns the documented defaults
func DefaultConfig() *Config {
	return &Config{
		Curation: CurationConfig{
			TargetCount:                     10,
			MaxPerDomain:                    3,
			MaxDomainRatio:                  0.4,
			OutstandingCredibilityThreshold: 0.95,
			GlobalMaxPerDomain:              5,
			GlobalMaxRatio:                  0.25,
			DiversityThreshold:              0.6,
			TextSimilarityThreshold:         0.85,
		},
		Abstention: AbstentionConfig{
			MinSourcesForVerdict:    3,
			MinCredibilityThreshold: 0.60,
			MinConsensusStrength:    0.50,
		},
		Concurrency: ConcurrencyConfig{
			MaxConcurrentVerifications: runtime.NumCPU(),
			CheckTimeout:               2 * time.Minute,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 200,
			Workers:   4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects configurations that would break curation invariants.
// All violations are reported together.
func (c *Config) Validate() error {
	var result *multierror.Error

	positive := func(name string, v int) {
		if v <= 0 {
			result = multierror.Append(result, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			result = multierror.Append(result, fmt.Errorf("%s must be within [0,1], got %.3f", name, v))
		}
	}

	positive("curation.target_count", c.Curation.TargetCount)
	positive("curation.max_per_domain", c.Curation.MaxPerDomain)
	positive("curation.global_max_per_domain", c.Curation.GlobalMaxPerDomain)
	unit("curation.max_domain_ratio", c.Curation.MaxDomainRatio)
	unit("curation.outstanding_credibility_threshold", c.Curation.OutstandingCredibilityThreshold)
	unit("curation.global_max_ratio", c.Curation.GlobalMaxRatio)
	unit("curation.diversity_threshold", c.Curation.DiversityThreshold)
	unit("curation.text_similarity_threshold", c.Curation.TextSimilarityThreshold)

	if c.Abstention.MinSourcesForVerdict < 0 {
		result = multierror.Append(result, fmt.Errorf("abstention.min_sources_for_verdict must not be negative, got %d", c.Abstention.MinSourcesForVerdict))
	}
	unit("abstention.min_credibility_threshold", c.Abstention.MinCredibilityThreshold)
	unit("abstention.min_consensus_strength", c.Abstention.MinConsensusStrength)

	positive("concurrency.max_concurrent_verifications", c.Concurrency.MaxConcurrentVerifications)
	if c.Concurrency.CheckTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("concurrency.check_timeout must not be negative"))
	}
	if c.RateLimiting.RequestsPerSecond < 0 {
		result = multierror.Append(result, fmt.Errorf("rate_limiting.requests_per_second must not be negative"))
	}

	return result.ErrorOrNil()
}
