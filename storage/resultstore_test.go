package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/codescope/codescope/model"
)

func TestResultStoreRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	store := NewResultStore(kv, 0)
	ctx := context.Background()

	result := model.AnalysisResult{
		Summary:    "Computes a factorial recursively.",
		Complexity: "Time: O(n)\nSpace: O(n)",
		Flowchart:  `graph TD\n  A[say "hi"] --> B`,
	}

	if err := store.Put(ctx, "abc123", result); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected result, got nil")
	}
	if got.Summary != result.Summary {
		t.Errorf("summary = %q, want %q", got.Summary, result.Summary)
	}
	if got.Complexity != result.Complexity {
		t.Errorf("complexity = %q, want %q", got.Complexity, result.Complexity)
	}
	// The flowchart comes back sanitized, not verbatim.
	want := `graph TD\n  A["say 'hi'"] --> B`
	if got.Flowchart != want {
		t.Errorf("flowchart = %q, want sanitized %q", got.Flowchart, want)
	}
}

func TestResultStoreGetAbsent(t *testing.T) {
	store := NewResultStore(NewMemoryKV(), 0)

	got, err := store.Get(context.Background(), "nothing-here")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent fingerprint, got %+v", got)
	}
}

func TestResultStoreCorruptEntryIsError(t *testing.T) {
	kv := NewMemoryKV()
	store := NewResultStore(kv, 0)
	ctx := context.Background()

	if err := kv.Set(ctx, ResultKey("bad"), "{not json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := store.Get(ctx, "bad"); err == nil {
		t.Error("expected error for corrupt entry")
	}
}

func TestResultStorePutUpdatesMetadata(t *testing.T) {
	store := NewResultStore(NewMemoryKV(), 0)
	ctx := context.Background()

	meta, err := store.Metadata(ctx)
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if meta.LastFingerprint != "" || meta.LastTimestamp != 0 {
		t.Errorf("expected zero metadata before any Put, got %+v", meta)
	}

	if err := store.Put(ctx, "fp1", model.AnalysisResult{Summary: "s"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	meta, err = store.Metadata(ctx)
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if meta.LastFingerprint != "fp1" {
		t.Errorf("LastFingerprint = %q, want \"fp1\"", meta.LastFingerprint)
	}
	if meta.LastTimestamp == 0 {
		t.Error("LastTimestamp not set")
	}

	if err := store.Put(ctx, "fp2", model.AnalysisResult{Summary: "t"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	meta, _ = store.Metadata(ctx)
	if meta.LastFingerprint != "fp2" {
		t.Errorf("LastFingerprint = %q, want \"fp2\"", meta.LastFingerprint)
	}
}

func TestResultStoreEviction(t *testing.T) {
	store := NewResultStore(NewMemoryKV(), 10)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		fp := fmt.Sprintf("fp%02d", i)
		if err := store.Put(ctx, fp, model.AnalysisResult{Summary: fp}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := store.EvictOldest(ctx); err != nil {
		t.Fatalf("EvictOldest failed: %v", err)
	}

	var remaining int
	for i := 0; i < 15; i++ {
		fp := fmt.Sprintf("fp%02d", i)
		got, err := store.Get(ctx, fp)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			remaining++
		}
	}
	if remaining > 10 {
		t.Errorf("%d results resolvable after eviction, want at most 10", remaining)
	}

	// Oldest-inserted entries are the ones removed.
	for i := 0; i < 5; i++ {
		fp := fmt.Sprintf("fp%02d", i)
		if got, _ := store.Get(ctx, fp); got != nil {
			t.Errorf("expected oldest entry %s to be evicted", fp)
		}
	}
	for i := 5; i < 15; i++ {
		fp := fmt.Sprintf("fp%02d", i)
		if got, _ := store.Get(ctx, fp); got == nil {
			t.Errorf("expected newer entry %s to survive eviction", fp)
		}
	}
}

func TestResultStoreEvictionUnderCap(t *testing.T) {
	store := NewResultStore(NewMemoryKV(), 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		fp := fmt.Sprintf("fp%d", i)
		if err := store.Put(ctx, fp, model.AnalysisResult{Summary: fp}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := store.EvictOldest(ctx); err != nil {
		t.Fatalf("EvictOldest failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if got, _ := store.Get(ctx, fmt.Sprintf("fp%d", i)); got == nil {
			t.Errorf("entry fp%d evicted below cap", i)
		}
	}
}
