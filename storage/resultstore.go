// ResultStore: one analysis result per fingerprint, with bounded retention.

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/codescope/codescope/internal/mermaid"
	"github.com/codescope/codescope/model"
)

// DefaultMaxResults is the retention cap for stored analysis results.
const DefaultMaxResults = 10

// ResultStore persists the last analysis result for each fingerprint.
// Put also maintains the single-slot metadata record tracking the most
// recently analyzed content. The orchestrator is the sole writer.
type ResultStore struct {
	kv         KV
	maxEntries int
}

// NewResultStore creates a result store over kv. maxEntries <= 0 uses
// DefaultMaxResults.
func NewResultStore(kv KV, maxEntries int) *ResultStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxResults
	}
	return &ResultStore{kv: kv, maxEntries: maxEntries}
}

// ResultKey returns the storage key for a fingerprint.
func ResultKey(fingerprint string) string {
	return ResultKeyPrefix + fingerprint
}

// Get returns the stored result for fingerprint, or nil when absent.
// A corrupt stored value is an error; callers treat it as a miss.
func (s *ResultStore) Get(ctx context.Context, fingerprint string) (*model.AnalysisResult, error) {
	raw, ok, err := s.kv.Get(ctx, ResultKey(fingerprint))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("corrupt result for fingerprint %q: %w", fingerprint, err)
	}
	return &result, nil
}

// Put stores result under fingerprint and updates the last-analyzed
// metadata slot. The flowchart field is sanitized before persisting so
// stored diagram text is always renderable.
func (s *ResultStore) Put(ctx context.Context, fingerprint string, result model.AnalysisResult) error {
	result.Flowchart = mermaid.Sanitize(result.Flowchart)

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := s.kv.Set(ctx, ResultKey(fingerprint), string(encoded)); err != nil {
		return err
	}

	if err := s.kv.Set(ctx, KeyLastHash, fingerprint); err != nil {
		return err
	}
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return s.kv.Set(ctx, KeyLastTimestamp, now)
}

// Metadata returns the last-analyzed fingerprint and timestamp. Absent or
// unparseable values come back as zero values, matching a never-analyzed
// state.
func (s *ResultStore) Metadata(ctx context.Context) (model.Metadata, error) {
	var meta model.Metadata

	hash, _, err := s.kv.Get(ctx, KeyLastHash)
	if err != nil {
		return meta, err
	}
	meta.LastFingerprint = hash

	raw, ok, err := s.kv.Get(ctx, KeyLastTimestamp)
	if err != nil {
		return meta, err
	}
	if ok {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
			meta.LastTimestamp = ts
		}
	}
	return meta, nil
}

// EvictOldest removes the oldest-inserted results until at most maxEntries
// remain. Key listing order stands in for insertion order.
func (s *ResultStore) EvictOldest(ctx context.Context) error {
	keys, err := s.kv.Keys(ctx, ResultKeyPrefix)
	if err != nil {
		return err
	}
	if len(keys) <= s.maxEntries {
		return nil
	}

	for _, key := range keys[:len(keys)-s.maxEntries] {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
