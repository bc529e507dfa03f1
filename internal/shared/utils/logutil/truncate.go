// Package logutil shapes untrusted text before it reaches a log line.
package logutil

import "strings"

// TruncateForLog folds whitespace runs into single spaces and keeps at most
// maxRunes runes, appending "..." when something was cut. Upstream bodies are
// often multi-line HTML; this keeps them on one log line without splitting a
// UTF-8 sequence.
func TruncateForLog(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxRunes <= 0 {
		if s == "" {
			return ""
		}
		return "..."
	}

	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
