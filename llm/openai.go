// OpenAI provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for OpenAI Chat Completions API

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider for OpenAI.
type OpenAIProvider struct {
	client      *openai.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIProvider creates a new OpenAI provider. A missing API key is
// reported through Availability, not here.
func NewOpenAIProvider(apiKey, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	return &OpenAIProvider{
		client:      openai.NewClient(apiKey),
		apiKey:      apiKey,
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the current model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Availability reports Available when an API key is configured.
func (p *OpenAIProvider) Availability(_ context.Context) (Availability, error) {
	if p.apiKey == "" {
		return Unavailable, nil
	}
	return Available, nil
}

// Create returns a prompt session. Remote provider, no download phase.
func (p *OpenAIProvider) Create(_ context.Context, _ DownloadMonitor) (Session, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openai: no API key configured")
	}
	return &openaiSession{client: p.client, model: p.model, maxTokens: p.maxTokens, temperature: p.temperature}, nil
}

type openaiSession struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func (s *openaiSession) Prompt(ctx context.Context, text string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *openaiSession) Close() error {
	return nil
}
