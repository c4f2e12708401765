package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/curator/internal/model"
)

const ollamaBaseURL = "http://localhost:11434/v1"

// NewLabeler creates a stance labeler based on configuration.
// An empty provider disables labeling and returns nil.
func NewLabeler(config Config) (StanceLabeler, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return newOpenAI(config)

	case "ollama":
		// Ollama serves the OpenAI chat completions wire format
		if config.BaseURL == "" {
			config.BaseURL = ollamaBaseURL
		}
		if config.APIKey == "" {
			config.APIKey = "ollama"
		}
		if config.Model == "" {
			config.Model = "llama3.1"
		}
		return newOpenAI(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the curator configuration to labeler configuration
func ConfigFromModel(llmConfig model.LLMConfig, limits model.RateLimitConfig) Config {
	return Config{
		Provider:          llmConfig.Provider,
		Model:             llmConfig.Model,
		APIKey:            llmConfig.APIKey,
		BaseURL:           llmConfig.BaseURL,
		Timeout:           llmConfig.Timeout,
		MaxTokens:         llmConfig.MaxTokens,
		RequestsPerSecond: limits.RequestsPerSecond,
		Burst:             limits.BurstSize,
		HTTPProxy:         llmConfig.HTTPProxy,
		HTTPSProxy:        llmConfig.HTTPSProxy,
		NoProxy:           llmConfig.NoProxy,
	}
}

// newOpenAI avoids returning a typed nil inside the interface
func newOpenAI(config Config) (StanceLabeler, error) {
	labeler, err := NewOpenAILabeler(config)
	if err != nil {
		return nil, err
	}
	return labeler, nil
}
