// Anthropic provider implementation using official anthropic-sdk-go.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for Anthropic Messages API

package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider for Anthropic Claude.
type AnthropicProvider struct {
	client      anthropic.Client
	apiKey      string
	model       string
	maxTokens   int64
	temperature float64
}

// NewAnthropicProvider creates a new Anthropic provider. A missing API key
// is reported through Availability, not here.
func NewAnthropicProvider(apiKey, model string, maxTokens uint32, temperature float32) *AnthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:      client,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   int64(maxTokens),
		temperature: float64(temperature),
	}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Model returns the current model.
func (p *AnthropicProvider) Model() string {
	return p.model
}

// Availability reports Available when an API key is configured. Remote
// models never need a download.
func (p *AnthropicProvider) Availability(_ context.Context) (Availability, error) {
	if p.apiKey == "" {
		return Unavailable, nil
	}
	return Available, nil
}

// Create returns a prompt session. No download phase exists for a remote
// provider, so the monitor is never called.
func (p *AnthropicProvider) Create(_ context.Context, _ DownloadMonitor) (Session, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("anthropic: no API key configured")
	}
	return &anthropicSession{provider: p}, nil
}

type anthropicSession struct {
	provider *AnthropicProvider
}

func (s *anthropicSession) Prompt(ctx context.Context, text string) (string, error) {
	p := s.provider

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
		Temperature: anthropic.Float(p.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	content := ""
	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			content += variant.Text
		}
	}
	if content == "" {
		return "", fmt.Errorf("empty response from Anthropic")
	}
	return content, nil
}

func (s *anthropicSession) Close() error {
	return nil
}
