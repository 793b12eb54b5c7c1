// HistoryLedger: capped, ordered log of past analyses for user recall.

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codescope/codescope/model"
)

const (
	// DefaultMaxHistory caps the ledger length.
	DefaultMaxHistory = 10
	// DefaultPreviewLength truncates summary previews.
	DefaultPreviewLength = 50
)

// HistoryLedger maintains the analysis history, most-recent-first.
// Entries are never reordered or deduplicated: re-analyzing the same
// content adds a fresh entry at the front even when the same fingerprint
// already appears further back.
type HistoryLedger struct {
	kv         KV
	maxEntries int
	previewLen int
}

// NewHistoryLedger creates a ledger over kv. Non-positive limits use the
// defaults.
func NewHistoryLedger(kv KV, maxEntries, previewLen int) *HistoryLedger {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxHistory
	}
	if previewLen <= 0 {
		previewLen = DefaultPreviewLength
	}
	return &HistoryLedger{kv: kv, maxEntries: maxEntries, previewLen: previewLen}
}

// Record prepends an entry for fingerprint with a truncated summary
// preview, then trims the ledger to the cap.
func (l *HistoryLedger) Record(ctx context.Context, fingerprint, summary string) error {
	history, err := l.List(ctx)
	if err != nil {
		return err
	}

	entry := model.HistoryRecord{
		Fingerprint: fingerprint,
		Timestamp:   time.Now().UnixMilli(),
		Summary:     preview(summary, l.previewLen),
	}

	history = append([]model.HistoryRecord{entry}, history...)
	if len(history) > l.maxEntries {
		history = history[:l.maxEntries]
	}

	encoded, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return l.kv.Set(ctx, KeyHistory, string(encoded))
}

// List returns the ledger, most-recent-first. An absent ledger is empty,
// a corrupt one is an error.
func (l *HistoryLedger) List(ctx context.Context) ([]model.HistoryRecord, error) {
	raw, ok, err := l.kv.Get(ctx, KeyHistory)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var history []model.HistoryRecord
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("corrupt history ledger: %w", err)
	}
	return history, nil
}

// Clear deletes the entire ledger unconditionally.
func (l *HistoryLedger) Clear(ctx context.Context) error {
	return l.kv.Delete(ctx, KeyHistory)
}

// preview truncates s to max runes and marks the cut with an ellipsis.
func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes) + "..."
}
