// Translation service: cache-first translation of analysis summaries.

package translate

import (
	"context"
	"fmt"
	"os"

	"github.com/codescope/codescope/llm"
	"github.com/codescope/codescope/storage"
)

// Service translates summaries, consulting the translation cache before
// invoking the provider. Cache failures degrade to fresh translation and
// are never surfaced. Cached entries never expire; staleness is a known
// limitation.
//
// The service does not serialize concurrent translations for the same
// (fingerprint, lang): callers needing exactly-once cache writes must not
// run them concurrently.
type Service struct {
	cache    *storage.TranslationCache
	provider Provider
}

// NewService creates a translation service.
func NewService(cache *storage.TranslationCache, provider Provider) *Service {
	return &Service{cache: cache, provider: provider}
}

// Translate returns text in targetLang, keyed off fingerprint for caching.
// The source language ("en") bypasses the cache entirely and returns the
// text untranslated.
func (s *Service) Translate(ctx context.Context, fingerprint, targetLang, text string) (string, error) {
	if targetLang == "" || targetLang == SourceLanguage {
		return text, nil
	}

	cached, ok, err := s.cache.Get(ctx, fingerprint, targetLang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "translate: cache read failed, retranslating: %v\n", err)
	} else if ok {
		return cached, nil
	}

	avail, err := s.provider.Availability(ctx, SourceLanguage, targetLang)
	if err != nil {
		return "", fmt.Errorf("could not check translator availability: %w", err)
	}
	if avail == llm.Unavailable {
		return "", fmt.Errorf("translation to %q is not available", targetLang)
	}

	translator, err := s.provider.Create(ctx, SourceLanguage, targetLang, nil)
	if err != nil {
		return "", err
	}
	defer translator.Close()

	translated, err := translator.Translate(ctx, text)
	if err != nil {
		return "", err
	}

	if err := s.cache.Put(ctx, fingerprint, targetLang, translated); err != nil {
		fmt.Fprintf(os.Stderr, "translate: cache write failed: %v\n", err)
	}
	return translated, nil
}
