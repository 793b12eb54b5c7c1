// Package translate provides the translation capability and its caching
// layer.
//
// The provider contract mirrors the inference side: availability is checked
// per language pair, and creating a translator may involve a model download
// reported through the shared monitor type.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/codescope/codescope/llm"
)

// SourceLanguage is the language results are generated in. Requests for it
// bypass translation entirely.
const SourceLanguage = "en"

// Provider is the abstract translation capability.
type Provider interface {
	// Availability queries whether the source->target pair can be served.
	Availability(ctx context.Context, source, target string) (llm.Availability, error)

	// Create obtains a translator for the pair, downloading a model first
	// when needed.
	Create(ctx context.Context, source, target string, monitor llm.DownloadMonitor) (Translator, error)
}

// Translator translates text for one fixed language pair.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Close() error
}

// LLMProvider implements Provider by prompting an inference provider.
// There is no dedicated translation model; the same session that analyzes
// code translates its summaries.
type LLMProvider struct {
	inference llm.Provider
}

// NewLLMProvider wraps an inference provider as a translation provider.
func NewLLMProvider(inference llm.Provider) *LLMProvider {
	return &LLMProvider{inference: inference}
}

// Availability delegates to the underlying inference provider; a language
// pair is servable whenever inference is.
func (p *LLMProvider) Availability(ctx context.Context, _, _ string) (llm.Availability, error) {
	return p.inference.Availability(ctx)
}

// Create obtains an inference session and binds it to the language pair.
func (p *LLMProvider) Create(ctx context.Context, source, target string, monitor llm.DownloadMonitor) (Translator, error) {
	session, err := p.inference.Create(ctx, monitor)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation session: %w", err)
	}
	return &llmTranslator{session: session, source: source, target: target}, nil
}

type llmTranslator struct {
	session llm.Session
	source  string
	target  string
}

func (t *llmTranslator) Translate(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following text from %s to %s. Preserve any markdown formatting. Output only the translation, no commentary.\n\n%s",
		t.source, t.target, text)

	translated, err := t.session.Prompt(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return strings.TrimSpace(translated), nil
}

func (t *llmTranslator) Close() error {
	return t.session.Close()
}
