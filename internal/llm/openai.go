package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/curator/internal/model"
	"github.com/ppiankov/curator/internal/util"
	"github.com/ppiankov/curator/internal/worker"
)

// OpenAILabeler labels stances through an OpenAI-compatible chat completions API
type OpenAILabeler struct {
	client  *openai.Client
	config  Config
	limiter *worker.Limiter
	host    string
}

// NewOpenAILabeler creates a new OpenAI labeler
func NewOpenAILabeler(config Config) (*OpenAILabeler, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 200
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	return &OpenAILabeler{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		limiter: worker.NewLimiter(config.RequestsPerSecond, config.Burst),
		host:    clientConfig.BaseURL,
	}, nil
}

// Name returns the provider and model
func (p *OpenAILabeler) Name() string {
	return "openai:" + p.config.Model
}

// Label requests one completion per evidence item
func (p *OpenAILabeler) Label(ctx context.Context, req LabelRequest) ([]Label, error) {
	labels := make([]Label, 0, len(req.Evidence))
	for i := range req.Evidence {
		label, err := p.labelOne(ctx, req.Claim, req.Evidence[i])
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}

func (p *OpenAILabeler) labelOne(ctx context.Context, claim string, ev model.EvidenceCandidate) (Label, error) {
	if err := p.limiter.Wait(ctx, p.host); err != nil {
		return Label{}, fmt.Errorf("rate limit: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(claim, ev)},
		},
		MaxTokens:   p.config.MaxTokens,
		Temperature: 0,
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Label{}, fmt.Errorf("OpenAI API error for %s: %w", ev.URL, err)
	}
	if len(resp.Choices) == 0 {
		return Label{}, fmt.Errorf("no response from OpenAI for %s", ev.URL)
	}
	return ParseLabel(resp.Choices[0].Message.Content), nil
}
