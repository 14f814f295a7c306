package app

import "strings"

// Normalize canonicalizes code text for comparison: every CRLF becomes LF,
// then leading and trailing whitespace is trimmed. Empty input stays empty.
func Normalize(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
}

// IsCorrect reports whether the submitted code matches any accepted solution
// after normalization. Equality is exact string comparison; there is no
// semantic comparison and no execution. An empty solution list never matches.
func IsCorrect(submitted string, solutions []string) bool {
	normalized := Normalize(submitted)
	for _, solution := range solutions {
		if normalized == Normalize(solution) {
			return true
		}
	}
	return false
}
