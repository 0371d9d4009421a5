// Package normalize turns raw questions into the lower-cased text and word tokens the matcher compares.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords are dropped from query and question tokens.
// Articles, prepositions, auxiliaries and the usual interrogatives.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "he": {}, "in": {}, "into": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {}, "do": {}, "does": {}, "did": {},
	"can": {}, "could": {}, "should": {}, "would": {}, "am": {}, "been": {}, "my": {}, "me": {},
	"we": {}, "you": {}, "your": {}, "how": {}, "what": {}, "where": {}, "when": {}, "which": {},
	"who": {}, "why": {}, "there": {}, "these": {}, "those": {}, "please": {}, "up": {},
	"about": {},
}

// IsStopWord reports whether word is ignored during matching. word must already be lower-cased.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// Text lower-cases and trims raw input.
func Text(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Tokenize splits raw text into matchable words.
// Non-alphanumeric runes become spaces, tokens of one rune and stop-words are dropped.
// A query made only of stop-words yields an empty slice.
func Tokenize(raw string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, Text(raw))

	words := strings.Fields(cleaned)
	tokens := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 1 || IsStopWord(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// Unique drops repeated tokens, keeping the first occurrence.
func Unique(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Fields is the unfiltered lower-case whitespace split used by the feedback learner.
func Fields(raw string) []string {
	return strings.Fields(strings.ToLower(raw))
}
