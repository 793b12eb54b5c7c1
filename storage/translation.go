// TranslationCache: translated result variants keyed by fingerprint and
// target language.

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codescope/codescope/model"
)

// TranslationCache persists translated summaries. Entries carry a write
// timestamp but are never expired on read; staleness is a documented
// limitation of the system.
type TranslationCache struct {
	kv KV
}

// NewTranslationCache creates a translation cache over kv.
func NewTranslationCache(kv KV) *TranslationCache {
	return &TranslationCache{kv: kv}
}

// TranslationKey returns the storage key for a (fingerprint, language) pair.
func TranslationKey(fingerprint, lang string) string {
	return TranslationKeyPrefix + fingerprint + "_" + lang
}

// Get returns the cached translation for (fingerprint, lang) and whether
// one was present.
func (c *TranslationCache) Get(ctx context.Context, fingerprint, lang string) (string, bool, error) {
	raw, ok, err := c.kv.Get(ctx, TranslationKey(fingerprint, lang))
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	var entry model.TranslationEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", false, fmt.Errorf("corrupt translation for %q/%q: %w", fingerprint, lang, err)
	}
	if entry.Text == "" {
		return "", false, nil
	}
	return entry.Text, true, nil
}

// Put stores text for (fingerprint, lang) with the current write time.
// Exactly-once semantics are not enforced here; callers serialize
// concurrent translations for the same key if they need them.
func (c *TranslationCache) Put(ctx context.Context, fingerprint, lang, text string) error {
	entry := model.TranslationEntry{
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode translation: %w", err)
	}
	return c.kv.Set(ctx, TranslationKey(fingerprint, lang), string(encoded))
}
