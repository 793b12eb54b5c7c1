package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/codescope/codescope/fingerprint"
	"github.com/codescope/codescope/llm"
	"github.com/codescope/codescope/model"
	"github.com/codescope/codescope/storage"
)

type fakeSession struct {
	response string
	err      error
	prompts  *atomic.Int64
}

func (s *fakeSession) Prompt(_ context.Context, _ string) (string, error) {
	if s.prompts != nil {
		s.prompts.Add(1)
	}
	return s.response, s.err
}

func (s *fakeSession) Close() error { return nil }

type fakeProvider struct {
	availability llm.Availability
	availErr     error
	response     string
	promptErr    error
	progress     []float64

	creates atomic.Int64
	prompts atomic.Int64
}

func (p *fakeProvider) Name() string  { return "fake" }
func (p *fakeProvider) Model() string { return "fake-model" }

func (p *fakeProvider) Availability(_ context.Context) (llm.Availability, error) {
	return p.availability, p.availErr
}

func (p *fakeProvider) Create(_ context.Context, monitor llm.DownloadMonitor) (llm.Session, error) {
	p.creates.Add(1)
	if monitor != nil {
		for _, frac := range p.progress {
			monitor(frac)
		}
	}
	return &fakeSession{response: p.response, err: p.promptErr, prompts: &p.prompts}, nil
}

func newTestOrchestrator(t *testing.T, provider llm.Provider) (*Orchestrator, storage.KV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	results := storage.NewResultStore(kv, storage.DefaultMaxResults)
	history := storage.NewHistoryLedger(kv, storage.DefaultMaxHistory, storage.DefaultPreviewLength)
	return New(provider, results, history), kv
}

const combinedResponse = `{"summary":"adds numbers","complexity":"O(1) time","flowchart":"graph TD\n  A[start] --> B[end]"}`

func TestCombinedAnalysisWritesThrough(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, response: combinedResponse}
	orch, kv := newTestOrchestrator(t, provider)
	ctx := context.Background()

	code := "function add(a, b) { return a + b; }"
	out, err := orch.Run(ctx, Request{Code: code, Type: model.TypeCombined})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.FromCache {
		t.Error("first run reported FromCache")
	}
	if out.Fingerprint != fingerprint.Hash(code) {
		t.Errorf("fingerprint = %q, want %q", out.Fingerprint, fingerprint.Hash(code))
	}
	if out.Result.Summary != "adds numbers" {
		t.Errorf("summary = %q", out.Result.Summary)
	}

	if _, ok, _ := kv.Get(ctx, storage.ResultKey(out.Fingerprint)); !ok {
		t.Error("result not persisted")
	}
	if v, ok, _ := kv.Get(ctx, storage.KeyLastHash); !ok || v != out.Fingerprint {
		t.Errorf("last hash = %q, %v", v, ok)
	}
	if _, ok, _ := kv.Get(ctx, storage.KeyHistory); !ok {
		t.Error("history not recorded")
	}
}

func TestRepeatRequestServedFromCache(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, response: combinedResponse}
	orch, _ := newTestOrchestrator(t, provider)
	ctx := context.Background()

	code := "let x = 1;"
	first, err := orch.Run(ctx, Request{Code: code, Type: model.TypeCombined})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := orch.Run(ctx, Request{Code: code, Type: model.TypeCombined})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !second.FromCache {
		t.Error("second run not served from cache")
	}
	if got := provider.prompts.Load(); got != 1 {
		t.Errorf("provider prompted %d times, want 1", got)
	}
	if first.Result != second.Result {
		t.Errorf("cached result differs: %+v vs %+v", first.Result, second.Result)
	}
}

func TestForceBypassesCache(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, response: combinedResponse}
	orch, _ := newTestOrchestrator(t, provider)
	ctx := context.Background()

	req := Request{Code: "let x = 1;", Type: model.TypeCombined}
	if _, err := orch.Run(ctx, req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	req.Force = true
	out, err := orch.Run(ctx, req)
	if err != nil {
		t.Fatalf("forced run: %v", err)
	}

	if out.FromCache {
		t.Error("forced run reported FromCache")
	}
	if got := provider.prompts.Load(); got != 2 {
		t.Errorf("provider prompted %d times, want 2", got)
	}
}

func TestDifferentCodeMissesCache(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, response: combinedResponse}
	orch, _ := newTestOrchestrator(t, provider)
	ctx := context.Background()

	if _, err := orch.Run(ctx, Request{Code: "let x = 1;", Type: model.TypeCombined}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := orch.Run(ctx, Request{Code: "let y = 2;", Type: model.TypeCombined}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if got := provider.prompts.Load(); got != 2 {
		t.Errorf("provider prompted %d times, want 2", got)
	}
}

func TestEmptyInputFailsWithoutProvider(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, response: combinedResponse}
	orch, _ := newTestOrchestrator(t, provider)

	_, err := orch.Run(context.Background(), Request{Code: "   \n\t ", Type: model.TypeCombined})
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
	if got := provider.creates.Load(); got != 0 {
		t.Errorf("provider sessions created: %d", got)
	}
}

func TestUnavailableProviderFailsWithoutWrites(t *testing.T) {
	provider := &fakeProvider{availability: llm.Unavailable}
	orch, kv := newTestOrchestrator(t, provider)
	ctx := context.Background()

	_, err := orch.Run(ctx, Request{Code: "let x = 1;", Type: model.TypeCombined})
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}

	keys, _ := kv.Keys(ctx, "")
	if len(keys) != 0 {
		t.Errorf("storage written on failure: %v", keys)
	}
}

func TestAvailabilityCheckErrorIsCapabilityAbsent(t *testing.T) {
	provider := &fakeProvider{availErr: errors.New("connection refused")}
	orch, _ := newTestOrchestrator(t, provider)

	_, err := orch.Run(context.Background(), Request{Code: "let x = 1;", Type: model.TypeCombined})
	if !errors.Is(err, ErrCapabilityAbsent) {
		t.Fatalf("err = %v, want ErrCapabilityAbsent", err)
	}
}

func TestCombinedParseFailureLeavesStoreUntouched(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, response: "sorry, I cannot help with that"}
	orch, kv := newTestOrchestrator(t, provider)
	ctx := context.Background()

	_, err := orch.Run(ctx, Request{Code: "let x = 1;", Type: model.TypeCombined})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}

	keys, _ := kv.Keys(ctx, "")
	if len(keys) != 0 {
		t.Errorf("storage written on parse failure: %v", keys)
	}
}

func TestPromptFailureIsInferenceError(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, promptErr: errors.New("model overloaded")}
	orch, _ := newTestOrchestrator(t, provider)

	_, err := orch.Run(context.Background(), Request{Code: "let x = 1;", Type: model.TypeCombined})
	var infErr *InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("err = %v, want InferenceError", err)
	}
}

func TestSingleModeMergesWithPriorResult(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, response: combinedResponse}
	orch, _ := newTestOrchestrator(t, provider)
	ctx := context.Background()

	code := "let x = 1;"
	if _, err := orch.Run(ctx, Request{Code: code, Type: model.TypeCombined}); err != nil {
		t.Fatalf("combined run: %v", err)
	}

	provider.response = "A cleaner summary."
	out, err := orch.Run(ctx, Request{Code: code, Type: model.TypeSummary, Force: true})
	if err != nil {
		t.Fatalf("summary run: %v", err)
	}

	if out.Result.Summary != "A cleaner summary." {
		t.Errorf("summary = %q", out.Result.Summary)
	}
	if out.Result.Complexity != "O(1) time" {
		t.Errorf("complexity dropped on single-mode rerun: %q", out.Result.Complexity)
	}
}

func TestFlowchartModeExtractsMermaid(t *testing.T) {
	provider := &fakeProvider{
		availability: llm.Available,
		response:     "Here you go:\n```mermaid\ngraph TD\n  A[start] --> B[end]\n```\nDone.",
	}
	orch, _ := newTestOrchestrator(t, provider)

	out, err := orch.Run(context.Background(), Request{Code: "let x = 1;", Type: model.TypeFlowchart})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := `graph TD
  A["start"] --> B["end"]`
	if out.Result.Flowchart != want {
		t.Errorf("flowchart = %q, want %q", out.Result.Flowchart, want)
	}
}

func TestDownloadProgressEventsForwarded(t *testing.T) {
	provider := &fakeProvider{
		availability: llm.Downloadable,
		response:     combinedResponse,
		progress:     []float64{0.25, 0.5, 1},
	}
	orch, _ := newTestOrchestrator(t, provider)

	task := orch.Start(context.Background(), Request{Code: "let x = 1;", Type: model.TypeCombined})

	var awaiting []float64
	sawGenerating := false
	for ev := range task.Events() {
		switch ev.State {
		case StateAwaitingModel:
			if ev.Progress > 0 {
				awaiting = append(awaiting, ev.Progress)
			}
		case StateGenerating:
			sawGenerating = true
		}
	}
	if _, err := task.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if len(awaiting) != 3 || awaiting[2] != 1 {
		t.Errorf("progress events = %v", awaiting)
	}
	if !sawGenerating {
		t.Error("no generating event observed")
	}
}

func TestEventStreamTerminatesOnFailure(t *testing.T) {
	provider := &fakeProvider{availability: llm.Unavailable}
	orch, _ := newTestOrchestrator(t, provider)

	task := orch.Start(context.Background(), Request{Code: "let x = 1;", Type: model.TypeCombined})

	var last Event
	for ev := range task.Events() {
		last = ev
	}
	if last.State != StateFailed {
		t.Errorf("terminal event state = %v, want failed", last.State)
	}
	if _, err := task.Wait(); err == nil {
		t.Error("Wait returned nil error after failure")
	}
}

func TestRequestIDAssigned(t *testing.T) {
	provider := &fakeProvider{availability: llm.Available, response: combinedResponse}
	orch, _ := newTestOrchestrator(t, provider)

	out, err := orch.Run(context.Background(), Request{Code: "let x = 1;", Type: model.TypeCombined})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.RequestID == "" {
		t.Error("request ID not assigned")
	}
}
