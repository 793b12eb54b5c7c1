// Package storage provides the durable key-value namespace shared by all
// components, and the typed stores layered on top of it.
//
// Information Hiding:
// - SQLite connection management hidden behind the KV interface
// - Key layout and JSON encoding encapsulated in the typed stores
// - Eviction and trim policies applied internally
//
// All operations return explicit errors. Callers decide what a failure
// means; for the orchestrator every storage error degrades to a cache miss.
package storage

import "context"

// Stable key layout of the persisted namespace. A compatible implementation
// must reproduce these names exactly.
const (
	// KeyLastHash holds the fingerprint of the most recently analyzed content.
	KeyLastHash = "lastAnalyzedCodeHash"
	// KeyLastTimestamp holds the time of the last analysis, ms since epoch.
	KeyLastTimestamp = "lastAnalysisTimestamp"
	// KeyHistory holds the JSON-encoded history ledger.
	KeyHistory = "analysisHistory"

	// ResultKeyPrefix namespaces per-fingerprint analysis results.
	ResultKeyPrefix = "codeAnalysisResults_"
	// TranslationKeyPrefix namespaces cached translations.
	TranslationKeyPrefix = "translation_"

	// Ephemeral handoff keys written by the capture surface.
	KeySelectedCode = "selectedCode"
	KeyAnalysisType = "analysisType"
	KeyForceNew     = "forceNewAnalysis"
	KeyHandoffTime  = "timestamp"
)

// KV is a durable string key-value store.
//
// Keys must return keys in insertion order: the eviction policy uses listing
// order as a proxy for entry age. Overwriting an existing key keeps its
// original position.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys starting with prefix, in insertion order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources.
	Close() error
}
