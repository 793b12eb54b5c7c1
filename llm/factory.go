// Provider factory - creates providers by name with environment-based
// credentials.
//
// Quick Start:
//
//	provider, err := llm.FromEnv("anthropic", "", 4096, 0.7)
//	provider, err := llm.FromEnv("ollama", "llama3.2", 4096, 0.7)

package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// providerInfo holds per-provider environment configuration.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration. Ollama has no API key; its
// host comes from OLLAMA_HOST.
var providers = map[string]providerInfo{
	"anthropic": {"ANTHROPIC_MODEL", "claude-sonnet-4-20250514", "ANTHROPIC_API_KEY"},
	"openai":    {"OPENAI_MODEL", "gpt-4o", "OPENAI_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", "deepseek-chat", "DEEPSEEK_API_KEY"},
	"gemini":    {"GEMINI_MODEL", "gemini-2.5-flash", "GEMINI_API_KEY"},
	"ollama":    {"OLLAMA_MODEL", "llama3.2", ""},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
	"local":  "ollama",
}

// FromEnv creates the named provider, resolving the model and credentials
// from environment variables. model, when non-empty, overrides both the
// env model and the default. A missing API key does not fail construction;
// the provider reports Unavailable instead.
func FromEnv(name, model string, maxTokens uint32, temperature float32) (Provider, error) {
	name = normalizeProvider(name)

	info, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %q (supported: %s)",
			name, strings.Join(SupportedProviders(), ", "))
	}

	if model == "" {
		model = os.Getenv(info.modelEnv)
	}
	if model == "" {
		model = info.defaultModel
	}

	switch name {
	case "anthropic":
		return NewAnthropicProvider(os.Getenv(info.apiKeyEnv), model, maxTokens, temperature), nil
	case "openai":
		return NewOpenAIProvider(os.Getenv(info.apiKeyEnv), model, maxTokens, temperature), nil
	case "deepseek":
		return NewDeepSeekProvider(os.Getenv(info.apiKeyEnv), model, maxTokens, temperature), nil
	case "gemini":
		return NewGeminiProvider(os.Getenv(info.apiKeyEnv), model, maxTokens, temperature), nil
	case "ollama":
		return NewOllamaProvider(os.Getenv("OLLAMA_HOST"), model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", name)
	}
}

// SupportedProviders returns the canonical provider names, sorted.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := providerAliases[name]; ok {
		return canonical
	}
	return name
}
