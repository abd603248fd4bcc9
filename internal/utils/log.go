// Package utils has small helpers shared by the AI providers.
package utils

import "strings"

// TruncateForLog turns a prompt or model response into a one-line preview of
// at most limit runes. Runs of whitespace, newlines included, become a single
// space; a cut preview ends with "...".
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
