// Google Gemini provider implementation using official google.golang.org/genai SDK.
//
// Information Hiding:
// - API authentication and client creation
// - Request/response format for Gemini API

package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google Gemini.
type GeminiProvider struct {
	client      *genai.Client
	apiKey      string
	model       string
	maxTokens   int32
	temperature float32
	initErr     error // client initialization error, reported via Availability
}

// NewGeminiProvider creates a new Gemini provider. Client initialization
// errors are deferred to Availability/Create to preserve the constructor
// signature.
func NewGeminiProvider(apiKey, model string, maxTokens uint32, temperature float32) *GeminiProvider {
	p := &GeminiProvider{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   int32(maxTokens),
		temperature: temperature,
	}

	if apiKey == "" {
		return p
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		p.initErr = fmt.Errorf("failed to initialize Gemini client: %w", err)
		return p
	}
	p.client = client
	return p
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the current model.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Availability reports Available when the client initialized with an API
// key. An initialization failure is a capability-check error.
func (p *GeminiProvider) Availability(_ context.Context) (Availability, error) {
	if p.initErr != nil {
		return Unavailable, p.initErr
	}
	if p.apiKey == "" || p.client == nil {
		return Unavailable, nil
	}
	return Available, nil
}

// Create returns a prompt session. Remote provider, no download phase.
func (p *GeminiProvider) Create(_ context.Context, _ DownloadMonitor) (Session, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}
	if p.client == nil {
		return nil, fmt.Errorf("gemini: no API key configured")
	}
	return &geminiSession{provider: p}, nil
}

type geminiSession struct {
	provider *GeminiProvider
}

func (s *geminiSession) Prompt(ctx context.Context, text string) (string, error) {
	p := s.provider

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.temperature),
		MaxOutputTokens: p.maxTokens,
	}

	response, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(text), config)
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	content := response.Text()
	if content == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return content, nil
}

func (s *geminiSession) Close() error {
	return nil
}
