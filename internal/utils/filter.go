package utils

import (
	"strings"
)

// SuggestionFilter drops repeated suggestions, comparing case-insensitively.
// Not safe for concurrent use; create one per response.
type SuggestionFilter struct {
	seen  map[string]bool
	first string
}

// NewSuggestionFilter creates a filter that already excludes first (usually the best match).
func NewSuggestionFilter(first string) *SuggestionFilter {
	lower := strings.ToLower(strings.TrimSpace(first))
	return &SuggestionFilter{
		seen:  map[string]bool{lower: true},
		first: lower,
	}
}

// ShouldInclude reports whether text is new, and remembers it.
func (f *SuggestionFilter) ShouldInclude(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if f.seen[lower] {
		return false
	}
	f.seen[lower] = true
	return true
}
