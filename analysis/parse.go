// Response parsing: structured combined-mode payloads and flowchart
// extraction.

package analysis

import (
	"regexp"
	"strings"

	ijson "github.com/codescope/codescope/internal/json"
	"github.com/codescope/codescope/model"
)

// combinedPayload is the structured combined-mode response contract.
type combinedPayload struct {
	Summary    string `json:"summary"`
	Complexity string `json:"complexity"`
	Flowchart  string `json:"flowchart"`
}

// parseCombined decodes a combined-mode response, tolerating fenced blocks
// and surrounding commentary. A response with no valid JSON object is a
// parse failure.
func parseCombined(response string) (model.AnalysisResult, error) {
	payload, err := ijson.Decode[combinedPayload](response)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	return model.AnalysisResult{
		Summary:    payload.Summary,
		Complexity: payload.Complexity,
		Flowchart:  payload.Flowchart,
	}, nil
}

var (
	mermaidFence = regexp.MustCompile("(?s)```mermaid\n(.*?)\n```")
	graphStart   = regexp.MustCompile(`(?:graph|flowchart)\s+[A-Z]{2}`)
)

// ParseMermaid extracts a flowchart definition from a flowchart-mode
// response: a fenced mermaid block first, then an inline graph/flowchart
// definition up to the next blank line. Returns "" when neither is found.
func ParseMermaid(response string) string {
	if m := mermaidFence.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}

	loc := graphStart.FindStringIndex(response)
	if loc == nil {
		return ""
	}
	rest := response[loc[0]:]
	if end := strings.Index(rest, "\n\n"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
