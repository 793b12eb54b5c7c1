// DeepSeek provider implementation using go-openai library.
//
// Information Hiding:
// - Uses OpenAI-compatible API with a different base URL

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// DeepSeekProvider implements Provider for DeepSeek.
type DeepSeekProvider struct {
	client      *openai.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(apiKey, model string, maxTokens uint32, temperature float32) *DeepSeekProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = deepseekBaseURL

	return &DeepSeekProvider{
		client:      openai.NewClientWithConfig(config),
		apiKey:      apiKey,
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

// Model returns the current model.
func (p *DeepSeekProvider) Model() string {
	return p.model
}

// Availability reports Available when an API key is configured.
func (p *DeepSeekProvider) Availability(_ context.Context) (Availability, error) {
	if p.apiKey == "" {
		return Unavailable, nil
	}
	return Available, nil
}

// Create returns a prompt session. Remote provider, no download phase.
func (p *DeepSeekProvider) Create(_ context.Context, _ DownloadMonitor) (Session, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("deepseek: no API key configured")
	}
	return &openaiSession{client: p.client, model: p.model, maxTokens: p.maxTokens, temperature: p.temperature}, nil
}
