// Prompt templates for each analysis type.

package analysis

import (
	"fmt"

	"github.com/codescope/codescope/model"
)

// Some on-device models refuse to answer without an explicit output
// language.
const languageHeader = "You must respond in English. Output language: en\n\n"

const mermaidRules = `STRICT RULES:
1. Node names must only contain letters, numbers, underscores, and spaces.
2. Do NOT use brackets, parentheses, %, &, or any other special characters in node names.
3. Use arrows and simple node connections only (no nested or complex syntax).
4. If the code contains complex expressions, summarize them in plain English (e.g., write "check if x is greater than y" instead of "if (x > y)").
5. Include all major logic branches (conditions, loops, returns, etc.).
6. Keep the diagram clean, simple, and easy to understand.
7. Example node description style:
- Start process
- Check if input is valid
- Set ith value of array to zero
- Print result and end`

// Prompt builds the model prompt for code and the requested analysis type.
func Prompt(code string, typ model.AnalysisType) string {
	switch typ {
	case model.TypeSummary:
		return languageHeader + fmt.Sprintf(
			"Provide a concise one-paragraph summary of this code in 2-3 sentences. Be clear and direct.\n\nCODE:\n```\n%s\n```\n\nSummary:",
			code)

	case model.TypeComplexity:
		return languageHeader + fmt.Sprintf(
			"Analyze the time and space complexity of this code using Big O notation. Format as:\nTime: O(...)\nSpace: O(...)\n\nThen provide a brief explanation.\n\nCODE:\n```\n%s\n```\n\nAnalysis:",
			code)

	case model.TypeFlowchart:
		return languageHeader + fmt.Sprintf(
			"Create a Mermaid.js flowchart in 'graph TD' format for this code.\n\nCODE:\n```\n%s\n```\n\nImportant:\n- Start with graph TD.\n- %s\n\nFlowchart:",
			code, mermaidRules)

	default: // combined
		return languageHeader + fmt.Sprintf(
			`You are a code analysis expert. Analyze the following code and provide a structured analysis in JSON format.

CODE TO ANALYZE:
`+"```\n%s\n```"+`

Provide your response as valid JSON (no markdown formatting) with these exact fields:
{
  "summary": "A concise one-paragraph summary of what this code does in 2-3 sentences",
  "complexity": "Big O analysis - start with 'Time: O(...)\nSpace: O(...)' followed by a brief explanation",
  "flowchart": "A Mermaid.js flowchart in 'graph TD' format. %s"
}

IMPORTANT:
- Make summary clear and concise.
- Include exact Big O notation for both time and space.
- Output ONLY valid JSON, no extra text.`,
			code, mermaidRules)
	}
}
