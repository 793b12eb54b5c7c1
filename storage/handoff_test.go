package storage

import (
	"context"
	"testing"

	"github.com/codescope/codescope/model"
)

func TestHandoffWriteConsume(t *testing.T) {
	store := NewHandoffStore(NewMemoryKV())
	ctx := context.Background()

	if err := store.Write(ctx, "print(1)", model.TypeSummary, true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	handoff, err := store.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if handoff.SelectedCode != "print(1)" {
		t.Errorf("SelectedCode = %q", handoff.SelectedCode)
	}
	if handoff.AnalysisType != model.TypeSummary {
		t.Errorf("AnalysisType = %q, want summary", handoff.AnalysisType)
	}
	if !handoff.Force {
		t.Error("Force = false, want true")
	}
	if handoff.Timestamp == 0 {
		t.Error("Timestamp not set")
	}
}

func TestHandoffForceFlagConsumedOnce(t *testing.T) {
	store := NewHandoffStore(NewMemoryKV())
	ctx := context.Background()

	if err := store.Write(ctx, "code", model.TypeCombined, true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	first, err := store.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if !first.Force {
		t.Error("first Consume: Force = false, want true")
	}

	second, err := store.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if second.Force {
		t.Error("second Consume: Force = true, want cleared")
	}
	// The selection itself survives repeated consumes.
	if second.SelectedCode != "code" {
		t.Errorf("SelectedCode = %q after second Consume", second.SelectedCode)
	}
}

func TestHandoffEmptyStore(t *testing.T) {
	store := NewHandoffStore(NewMemoryKV())

	handoff, err := store.Consume(context.Background())
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if handoff.SelectedCode != "" {
		t.Errorf("SelectedCode = %q, want empty", handoff.SelectedCode)
	}
	if handoff.AnalysisType != model.TypeCombined {
		t.Errorf("AnalysisType = %q, want combined default", handoff.AnalysisType)
	}
}
