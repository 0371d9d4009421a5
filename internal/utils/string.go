package utils

import (
	"unicode"
)

// ContainsLetters checks if a string has at least one letter
func ContainsLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks if a string is one character repeated 3+ times ("aaa", "????")
func IsRepetitive(s string) bool {
	runes := []rune(s)
	if len(runes) <= 2 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// IsValidQuery checks if input is worth sending to the matcher.
// Rejects blank input, input without letters, and repetitive keymashes.
func IsValidQuery(s string) bool {
	if len(s) == 0 {
		return false
	}
	if !ContainsLetters(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	return true
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
