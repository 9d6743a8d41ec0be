package utils

import (
	"strings"
	"unicode/utf8"
)

// ErrJSON produces a standard JSON error response.
func ErrJSON(msg string) map[string]any {
	return map[string]any{
		"success": false,
		"error":   msg,
	}
}

// LimitStr returns s truncated to n runes with "..." appended if longer.
func LimitStr(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// CleanJSON extracts the JSON payload from a model reply. It drops a
// leading <think> block and markdown fences, then trims anything outside
// the outermost braces. Replies without an object come back trimmed but
// otherwise unchanged.
func CleanJSON(s string) string {
	if i := strings.LastIndex(s, "</think>"); i != -1 {
		s = s[i+len("</think>"):]
	}
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(s, "```"); ok {
		if nl := strings.IndexByte(rest, '\n'); nl != -1 {
			rest = rest[nl+1:]
		}
		rest = strings.TrimSpace(rest)
		s = strings.TrimSpace(strings.TrimSuffix(rest, "```"))
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start > 0 && end > start {
		s = s[start : end+1]
	} else if start == 0 && end > 0 {
		s = s[:end+1]
	}
	return s
}
