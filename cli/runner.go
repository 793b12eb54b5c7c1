// Command execution for CLI commands.
//
// Information Hiding:
// - Store and provider setup hidden
// - Event-stream rendering hidden
// - Output formatting hidden

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/codescope/codescope/analysis"
	"github.com/codescope/codescope/config"
	"github.com/codescope/codescope/llm"
	"github.com/codescope/codescope/model"
	"github.com/codescope/codescope/storage"
	"github.com/codescope/codescope/translate"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	Model    string
	Force    bool
	Language string
	Verbose  bool
}

// Analyze runs one analysis over the given code and prints the result.
// With empty code it falls back to the pending selection in the store.
func Analyze(ctx context.Context, code, analysisType string, opts Options) error {
	typ, err := model.ParseAnalysisType(analysisType)
	if err != nil {
		return err
	}

	env, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	force := opts.Force
	if code == "" {
		handoff, err := env.handoff.Consume(ctx)
		if err != nil {
			return fmt.Errorf("reading pending selection: %w", err)
		}
		code = handoff.SelectedCode
		if analysisType == "" {
			typ = handoff.AnalysisType
		}
		force = force || handoff.Force
	}

	task := env.orchestrator.Start(ctx, analysis.Request{
		Code:  code,
		Type:  typ,
		Force: force,
	})
	renderEvents(task.Events(), opts.Verbose)

	outcome, err := task.Wait()
	if err != nil {
		return err
	}

	if outcome.FromCache {
		fmt.Println("(cached result)")
	}
	printResult(os.Stdout, outcome.Result)

	if opts.Language != "" {
		return translateResult(ctx, env, outcome, opts)
	}
	return nil
}

// Select stores code as the pending selection for a later Analyze call.
func Select(ctx context.Context, code, analysisType string, force bool) error {
	typ, err := model.ParseAnalysisType(analysisType)
	if err != nil {
		return err
	}

	settings, err := config.New("")
	if err != nil {
		return err
	}
	kv, err := storage.OpenSqlite(settings.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer kv.Close()

	if err := storage.NewHandoffStore(kv).Write(ctx, code, typ, force); err != nil {
		return fmt.Errorf("storing selection: %w", err)
	}
	fmt.Printf("Selection stored (%d bytes, type %s)\n", len(code), typ)
	return nil
}

// History prints past analyses, most recent first.
func History(ctx context.Context, opts Options) error {
	env, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	records, err := env.history.List(ctx)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No analysis history.")
		return nil
	}

	for i, rec := range records {
		fmt.Printf("%2d. [%s] %s  %s\n", i+1, rec.Fingerprint, timeAgo(rec.Timestamp), rec.Summary)
	}
	return nil
}

// ClearHistory removes all history records.
func ClearHistory(ctx context.Context, opts Options) error {
	env, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.history.Clear(ctx); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	fmt.Println("History cleared.")
	return nil
}

// Recall prints the stored result for a fingerprint from a history entry.
func Recall(ctx context.Context, fp string, opts Options) error {
	env, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	result, err := env.results.Get(ctx, fp)
	if err != nil {
		return fmt.Errorf("reading stored result: %w", err)
	}
	if result == nil {
		return fmt.Errorf("no stored result for %q; it may have been evicted", fp)
	}
	printResult(os.Stdout, *result)
	return nil
}

// env bundles the stores and orchestrator a command needs.
type env struct {
	kv           storage.KV
	results      *storage.ResultStore
	history      *storage.HistoryLedger
	translations *storage.TranslationCache
	handoff      *storage.HandoffStore
	provider     llm.Provider
	orchestrator *analysis.Orchestrator
}

func newEnv(opts Options) (*env, error) {
	settings, err := config.New(opts.Provider)
	if err != nil {
		return nil, err
	}

	kv, err := storage.OpenSqlite(settings.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	provider, err := llm.FromEnv(settings.LLM.Provider, firstNonEmpty(opts.Model, settings.LLM.Model),
		settings.LLM.MaxTokens, settings.LLM.Temperature)
	if err != nil {
		kv.Close()
		return nil, err
	}

	results := storage.NewResultStore(kv, settings.Cache.MaxResults)
	history := storage.NewHistoryLedger(kv, settings.Cache.MaxHistory, settings.Cache.PreviewLength)

	return &env{
		kv:           kv,
		results:      results,
		history:      history,
		translations: storage.NewTranslationCache(kv),
		handoff:      storage.NewHandoffStore(kv),
		provider:     provider,
		orchestrator: analysis.New(provider, results, history),
	}, nil
}

func (e *env) Close() {
	e.kv.Close()
}

// translateResult renders the summary and complexity in the requested
// language, reusing cached translations.
func translateResult(ctx context.Context, env *env, outcome analysis.Outcome, opts Options) error {
	svc := translate.NewService(env.translations, translate.NewLLMProvider(env.provider))

	fmt.Printf("\n--- Translated (%s) ---\n", opts.Language)
	summary, err := svc.Translate(ctx, outcome.Fingerprint, opts.Language, outcome.Result.Summary)
	if err != nil {
		return fmt.Errorf("translating summary: %w", err)
	}
	fmt.Printf("Summary: %s\n", summary)

	if outcome.Result.Complexity != "" {
		complexity, err := svc.Translate(ctx, outcome.Fingerprint+"_complexity", opts.Language, outcome.Result.Complexity)
		if err != nil {
			return fmt.Errorf("translating complexity: %w", err)
		}
		fmt.Printf("Complexity: %s\n", complexity)
	}
	return nil
}

// renderEvents drains the task event stream to stderr so progress never
// mixes with the result on stdout.
func renderEvents(events <-chan analysis.Event, verbose bool) {
	lastState := analysis.StateIdle
	for ev := range events {
		switch ev.State {
		case analysis.StateAwaitingModel:
			if ev.Progress > 0 {
				fmt.Fprintf(os.Stderr, "\rDownloading model... %3.0f%%", ev.Progress*100)
				if ev.Progress >= 1 {
					fmt.Fprintln(os.Stderr)
				}
			} else if lastState != analysis.StateAwaitingModel {
				fmt.Fprintln(os.Stderr, "Model download required.")
			}
		case analysis.StateCheckingAvailability:
			if verbose {
				fmt.Fprintln(os.Stderr, "Checking model availability...")
			}
		case analysis.StateGenerating:
			if verbose {
				fmt.Fprintln(os.Stderr, "Generating...")
			}
		}
		lastState = ev.State
	}
}

func printResult(w io.Writer, result model.AnalysisResult) {
	if result.Summary != "" {
		fmt.Fprintf(w, "Summary:\n%s\n", result.Summary)
	}
	if result.Complexity != "" {
		fmt.Fprintf(w, "\nComplexity:\n%s\n", result.Complexity)
	}
	if result.Flowchart != "" {
		fmt.Fprintf(w, "\nFlowchart:\n%s\n", result.Flowchart)
	}
	if result.IsZero() {
		fmt.Fprintln(w, "(empty result)")
	}
}

// timeAgo formats a millisecond timestamp as a coarse relative age.
func timeAgo(ms int64) string {
	age := time.Since(time.UnixMilli(ms))
	switch {
	case age < time.Minute:
		return "now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
