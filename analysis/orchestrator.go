// Analysis orchestration: cache-bypass decisions, the per-request state
// machine, and write-through to the result store and history ledger.
//
// Information Hiding:
// - State machine phases and transitions
// - Cache-bypass rule and write-through sequencing
// - Storage degradation policy (every storage error is a cache miss)

package analysis

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/codescope/codescope/fingerprint"
	"github.com/codescope/codescope/llm"
	"github.com/codescope/codescope/model"
	"github.com/codescope/codescope/storage"
)

// State is a phase of one analysis request.
type State int

const (
	// StateIdle is the initial state before a request starts.
	StateIdle State = iota
	// StateCheckingAvailability queries the inference capability.
	StateCheckingAvailability
	// StateAwaitingModel waits on a model download; can last arbitrarily
	// long, cancelled only via the request context.
	StateAwaitingModel
	// StateGenerating runs inference.
	StateGenerating
	// StateComplete is terminal success.
	StateComplete
	// StateFailed is terminal failure with a user-visible message.
	StateFailed
)

// String returns a display name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCheckingAvailability:
		return "checking availability"
	case StateAwaitingModel:
		return "awaiting model"
	case StateGenerating:
		return "generating"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is one state-machine transition or progress snapshot, delivered on
// the task's event stream.
type Event struct {
	State    State
	Progress float64 // download fraction in [0,1], meaningful in StateAwaitingModel
	Message  string
}

// Request is the explicit per-request context: the code to analyze, the
// analysis type, and whether to bypass the cache. Replaces any ambient
// selection state.
type Request struct {
	ID    string // assigned if empty
	Code  string
	Type  model.AnalysisType
	Force bool // always re-run, ignoring cached results
}

// Outcome is the terminal result of a request.
type Outcome struct {
	RequestID   string
	Fingerprint string
	Result      model.AnalysisResult
	FromCache   bool
}

// Orchestrator drives analysis requests. It is the sole writer to the
// result store and history ledger; concurrent requests for the same
// fingerprint and type share one inference via a single-flight guard.
// The metadata slot stays last-write-wins across distinct fingerprints.
type Orchestrator struct {
	provider llm.Provider
	results  *storage.ResultStore
	history  *storage.HistoryLedger
	flight   singleflight.Group
}

// New creates an orchestrator.
func New(provider llm.Provider, results *storage.ResultStore, history *storage.HistoryLedger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		results:  results,
		history:  history,
	}
}

// Task is a running analysis request: a progress/state event stream plus a
// waitable outcome.
type Task struct {
	events  chan Event
	done    chan struct{}
	outcome Outcome
	err     error
}

// Events returns the event stream. Closed when the request reaches a
// terminal state. Events are dropped, not blocked on, when the consumer
// falls behind.
func (t *Task) Events() <-chan Event {
	return t.events
}

// Wait blocks until the request is terminal and returns its outcome.
func (t *Task) Wait() (Outcome, error) {
	<-t.done
	return t.outcome, t.err
}

// Start begins an analysis request and returns its task handle.
// Cancellation is via ctx; an abandoned task's eventual completion still
// writes through to storage with no visible consumer.
func (o *Orchestrator) Start(ctx context.Context, req Request) *Task {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	task := &Task{
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(task.done)
		defer close(task.events)
		task.outcome, task.err = o.run(ctx, req, task.emit)
	}()

	return task
}

// Run executes a request synchronously, discarding progress events.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Outcome, error) {
	task := o.Start(ctx, req)
	for range task.Events() {
	}
	return task.Wait()
}

func (t *Task) emit(e Event) {
	select {
	case t.events <- e:
	default:
	}
}

func (o *Orchestrator) run(ctx context.Context, req Request, emit func(Event)) (Outcome, error) {
	if strings.TrimSpace(req.Code) == "" {
		emit(Event{State: StateFailed, Message: ErrNoInput.Error()})
		return Outcome{RequestID: req.ID}, ErrNoInput
	}

	fp := fingerprint.Hash(req.Code)

	// Cache bypass: serve the stored result without touching the provider
	// when the request is not forced, the fingerprint matches the
	// last-seen metadata, and a stored result exists. Storage errors at
	// any step degrade to a miss.
	if !req.Force {
		if cached := o.lookupCached(ctx, fp); cached != nil {
			emit(Event{State: StateComplete, Message: "served from cache"})
			return Outcome{RequestID: req.ID, Fingerprint: fp, Result: *cached, FromCache: true}, nil
		}
	}

	// One inference in flight per (fingerprint, type); latecomers await
	// the leader's result. Only the leader's events are emitted.
	flightKey := fp + "/" + string(req.Type)
	v, err, _ := o.flight.Do(flightKey, func() (interface{}, error) {
		return o.generate(ctx, req, fp, emit)
	})
	if err != nil {
		emit(Event{State: StateFailed, Message: err.Error()})
		return Outcome{RequestID: req.ID, Fingerprint: fp}, err
	}

	result := v.(model.AnalysisResult)
	emit(Event{State: StateComplete})
	return Outcome{RequestID: req.ID, Fingerprint: fp, Result: result}, nil
}

// lookupCached returns the stored result for fp when the cache-bypass rule
// holds, nil otherwise.
func (o *Orchestrator) lookupCached(ctx context.Context, fp string) *model.AnalysisResult {
	meta, err := o.results.Metadata(ctx)
	if err != nil {
		o.warnStorage("metadata read", err)
		return nil
	}
	if meta.LastFingerprint != fp {
		return nil
	}

	cached, err := o.results.Get(ctx, fp)
	if err != nil {
		o.warnStorage("result read", err)
		return nil
	}
	return cached
}

// generate runs the CheckingAvailability -> AwaitingModel -> Generating
// phases and writes the result through storage.
func (o *Orchestrator) generate(ctx context.Context, req Request, fp string, emit func(Event)) (model.AnalysisResult, error) {
	emit(Event{State: StateCheckingAvailability})

	avail, err := o.provider.Availability(ctx)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %v", ErrCapabilityAbsent, err)
	}
	if avail == llm.Unavailable {
		return model.AnalysisResult{}, ErrModelUnavailable
	}

	if avail.NeedsDownload() {
		emit(Event{State: StateAwaitingModel, Message: "downloading model"})
	}
	session, err := o.provider.Create(ctx, func(loaded float64) {
		emit(Event{State: StateAwaitingModel, Progress: loaded})
	})
	if err != nil {
		return model.AnalysisResult{}, &InferenceError{Err: err}
	}
	defer session.Close()

	emit(Event{State: StateGenerating, Message: string(req.Type)})

	response, err := session.Prompt(ctx, Prompt(req.Code, req.Type))
	if err != nil {
		return model.AnalysisResult{}, &InferenceError{Err: err}
	}

	result, err := o.assemble(ctx, req.Type, fp, response)
	if err != nil {
		// No storage writes on a failed parse; earlier stored fields for
		// this fingerprint are retained as-is.
		return model.AnalysisResult{}, err
	}

	o.commit(ctx, fp, &result)
	return result, nil
}

// assemble turns a raw response into the result to store. Combined mode
// requires the structured payload; single modes assign the raw text to
// their field, merged over any prior result for the fingerprint so a
// single-mode re-run does not clear fields computed earlier.
func (o *Orchestrator) assemble(ctx context.Context, typ model.AnalysisType, fp, response string) (model.AnalysisResult, error) {
	if typ == model.TypeCombined {
		result, err := parseCombined(response)
		if err != nil {
			return model.AnalysisResult{}, &ParseError{Err: err}
		}
		return result, nil
	}

	var result model.AnalysisResult
	if prior, err := o.results.Get(ctx, fp); err != nil {
		o.warnStorage("prior result read", err)
	} else if prior != nil {
		result = *prior
	}

	switch typ {
	case model.TypeSummary:
		result.Summary = response
	case model.TypeComplexity:
		result.Complexity = response
	case model.TypeFlowchart:
		result.Flowchart = ParseMermaid(response)
	}
	return result, nil
}

// commit writes the result through the store and ledger and applies
// eviction. Failures are logged and swallowed: caching is an optimization,
// never a correctness requirement. On success result is replaced by its
// stored (sanitized) form so fresh and cached serves are identical.
func (o *Orchestrator) commit(ctx context.Context, fp string, result *model.AnalysisResult) {
	if err := o.results.Put(ctx, fp, *result); err != nil {
		o.warnStorage("result write", err)
		return
	}
	if stored, err := o.results.Get(ctx, fp); err == nil && stored != nil {
		*result = *stored
	}

	if err := o.history.Record(ctx, fp, result.Summary); err != nil {
		o.warnStorage("history write", err)
	}
	if err := o.results.EvictOldest(ctx); err != nil {
		o.warnStorage("eviction", err)
	}
}

func (o *Orchestrator) warnStorage(op string, err error) {
	fmt.Fprintf(os.Stderr, "analysis: %s failed, degrading to cache miss: %v\n", op, err)
}
