package llm

import (
	"context"
	"testing"
)

func TestFromEnvKnownProviders(t *testing.T) {
	for _, name := range SupportedProviders() {
		provider, err := FromEnv(name, "", 4096, 0.7)
		if err != nil {
			t.Errorf("FromEnv(%q) failed: %v", name, err)
			continue
		}
		if provider.Name() != name {
			t.Errorf("provider.Name() = %q, want %q", provider.Name(), name)
		}
		if provider.Model() == "" {
			t.Errorf("provider %q has empty default model", name)
		}
	}
}

func TestFromEnvAliases(t *testing.T) {
	aliases := map[string]string{
		"claude": "anthropic",
		"gpt":    "openai",
		"google": "gemini",
		"local":  "ollama",
	}
	for alias, canonical := range aliases {
		provider, err := FromEnv(alias, "", 4096, 0.7)
		if err != nil {
			t.Errorf("FromEnv(%q) failed: %v", alias, err)
			continue
		}
		if provider.Name() != canonical {
			t.Errorf("FromEnv(%q).Name() = %q, want %q", alias, provider.Name(), canonical)
		}
	}
}

func TestFromEnvUnknownProvider(t *testing.T) {
	if _, err := FromEnv("nonsense", "", 4096, 0.7); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFromEnvModelOverride(t *testing.T) {
	provider, err := FromEnv("anthropic", "claude-custom", 4096, 0.7)
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if provider.Model() != "claude-custom" {
		t.Errorf("Model() = %q, want override", provider.Model())
	}
}

func TestRemoteProviderUnavailableWithoutKey(t *testing.T) {
	ctx := context.Background()

	for _, provider := range []Provider{
		NewAnthropicProvider("", "m", 4096, 0.7),
		NewOpenAIProvider("", "m", 4096, 0.7),
		NewDeepSeekProvider("", "m", 4096, 0.7),
		NewGeminiProvider("", "m", 4096, 0.7),
	} {
		avail, err := provider.Availability(ctx)
		if err != nil {
			t.Errorf("%s: Availability error: %v", provider.Name(), err)
			continue
		}
		if avail != Unavailable {
			t.Errorf("%s: Availability = %q without key, want unavailable", provider.Name(), avail)
		}
		if _, err := provider.Create(ctx, nil); err == nil {
			t.Errorf("%s: Create succeeded without key", provider.Name())
		}
	}
}

func TestAvailabilityNeedsDownload(t *testing.T) {
	tests := map[Availability]bool{
		Available:    false,
		Downloadable: true,
		Downloading:  true,
		Unavailable:  false,
	}
	for avail, want := range tests {
		if got := avail.NeedsDownload(); got != want {
			t.Errorf("%q.NeedsDownload() = %v, want %v", avail, got, want)
		}
	}
}
