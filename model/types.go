// Package model provides domain types shared across packages.
package model

import "fmt"

// AnalysisType selects which analysis the model is asked to produce.
type AnalysisType string

const (
	// TypeCombined requests summary, complexity, and flowchart in a single
	// structured response.
	TypeCombined AnalysisType = "combined"
	// TypeSummary requests only a prose summary.
	TypeSummary AnalysisType = "summary"
	// TypeComplexity requests only a Big O analysis.
	TypeComplexity AnalysisType = "complexity"
	// TypeFlowchart requests only a Mermaid flowchart.
	TypeFlowchart AnalysisType = "flowchart"
)

// ParseAnalysisType converts a string to an AnalysisType.
// An empty string defaults to combined.
func ParseAnalysisType(s string) (AnalysisType, error) {
	switch AnalysisType(s) {
	case "":
		return TypeCombined, nil
	case TypeCombined, TypeSummary, TypeComplexity, TypeFlowchart:
		return AnalysisType(s), nil
	default:
		return "", fmt.Errorf("unknown analysis type: %q", s)
	}
}

// AnalysisResult holds the outputs of one analysis run. Any field may be
// empty when it has not been computed yet. The flowchart field is persisted
// under the "mermaid" name for compatibility with the stored layout.
type AnalysisResult struct {
	Summary    string `json:"summary"`
	Complexity string `json:"complexity"`
	Flowchart  string `json:"mermaid"`
}

// IsZero reports whether no field has been computed.
func (r AnalysisResult) IsZero() bool {
	return r.Summary == "" && r.Complexity == "" && r.Flowchart == ""
}

// HistoryRecord is one entry in the analysis history ledger.
type HistoryRecord struct {
	Fingerprint string `json:"hash"`
	Timestamp   int64  `json:"timestamp"` // milliseconds since epoch
	Summary     string `json:"summary"`   // truncated preview
}

// TranslationEntry is a cached translated variant of a summary.
type TranslationEntry struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"` // milliseconds since epoch
}

// Metadata tracks the most recently analyzed content. A single slot,
// last-write-wins across concurrent requests.
type Metadata struct {
	LastFingerprint string
	LastTimestamp   int64 // milliseconds since epoch
}

// Handoff carries the ephemeral capture-surface keys: the selected code and
// how to analyze it. Written by the capture surface, consumed by the
// orchestrator entry point.
type Handoff struct {
	SelectedCode string
	AnalysisType AnalysisType
	Force        bool
	Timestamp    int64 // milliseconds since epoch
}
