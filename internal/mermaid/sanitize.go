// Package mermaid normalizes flowchart text so stored diagrams are always
// safely renderable.
package mermaid

import (
	"regexp"
	"strings"
)

// Node labels appear as id[label] or id{label}. Labels containing special
// characters break rendering unless quoted.
var (
	squareLabel = regexp.MustCompile(`([A-Za-z0-9_]+)\[([^\]]+)\]`)
	braceLabel  = regexp.MustCompile(`([A-Za-z0-9_]+)\{([^}]+)\}`)
)

// Sanitize re-wraps every node label in double quotes, replacing internal
// double quotes with single quotes to avoid nesting. Applied once at write
// time so persisted flowchart text is self-consistent.
func Sanitize(code string) string {
	if code == "" {
		return code
	}

	safe := squareLabel.ReplaceAllStringFunc(code, func(m string) string {
		sub := squareLabel.FindStringSubmatch(m)
		label := strings.ReplaceAll(sub[2], `"`, "'")
		return sub[1] + `["` + label + `"]`
	})
	safe = braceLabel.ReplaceAllStringFunc(safe, func(m string) string {
		sub := braceLabel.FindStringSubmatch(m)
		label := strings.ReplaceAll(sub[2], `"`, "'")
		return sub[1] + `{"` + label + `"}`
	})
	return safe
}
