package suggest

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/askserve/pkg/fuzzy"
	"github.com/bastiangx/askserve/pkg/lexicon"
)

// Weights are the fixed contributions of each scoring signal.
type Weights struct {
	ExactPhrase    float64
	TokenExact     float64
	TokenPartial   float64
	TokenFuzzy     float64
	FuzzyThreshold float64
	Subject        float64
	Context        float64
	Learned        float64
	Prefix         float64
}

// DefaultWeights returns the built-in signal weights.
func DefaultWeights() Weights {
	return Weights{
		ExactPhrase:    2.0,
		TokenExact:     1.0,
		TokenPartial:   0.5,
		TokenFuzzy:     0.3,
		FuzzyThreshold: fuzzy.DefaultThreshold,
		Subject:        0.5,
		Context:        0.5,
		Learned:        1.0,
		Prefix:         1.0,
	}
}

// ScoredCandidate is one entry's score for one query. It points at the entry
// inside the knowledge base and lives only as long as the response.
type ScoredCandidate struct {
	Entry    *KnowledgeEntry
	Position int
	Score    float64
	// Eligible is false when a prefix constraint excluded the entry.
	Eligible bool
	Reasons  []string
}

// scoring carries the per-query state shared by every candidate.
type scoring struct {
	query    ExpandedQuery
	lex      *lexicon.Lexicon
	weights  Weights
	eligible map[int]struct{}
	learned  map[string]struct{}
}

// score sums the signals for the entry at pos and normalizes by query length.
func (s *scoring) score(kb *KnowledgeBase, pos int) ScoredCandidate {
	entry := &kb.entries[pos]
	f := kb.features[pos]
	c := ScoredCandidate{Entry: entry, Position: pos, Eligible: true}
	q := s.query
	w := s.weights
	total := 0.0

	if q.Prefix != "" {
		if _, ok := s.eligible[pos]; !ok {
			c.Eligible = false
			c.Reasons = append(c.Reasons, fmt.Sprintf("excluded: answer does not start with %q", q.Prefix))
			return c
		}
	}

	if len(q.Tokens) > 0 && containsPhrase(f.question, q.Normalized) {
		total += w.ExactPhrase
		c.Reasons = append(c.Reasons, fmt.Sprintf("exact phrase +%.2f", w.ExactPhrase))
	}

	if cat, ok := s.lex.Category(entry.Subject); ok && cat.HasTerm(q.Expanded) {
		total += cat.Weight
		c.Reasons = append(c.Reasons, fmt.Sprintf("category %s +%.2f", cat.Name, cat.Weight))
		if phrase, ok := cat.ContextMatch(q.Normalized); ok {
			total += w.Context
			c.Reasons = append(c.Reasons, fmt.Sprintf("context %q +%.2f", phrase, w.Context))
		}
	}

	if tokenScore, reason := s.tokens(f.tokens); tokenScore > 0 {
		total += tokenScore
		c.Reasons = append(c.Reasons, reason)
	}

	if f.subject != "" && strings.Contains(q.Normalized, f.subject) {
		total += w.Subject
		c.Reasons = append(c.Reasons, fmt.Sprintf("subject %q +%.2f", entry.Subject, w.Subject))
	}

	if _, ok := s.learned[entry.Answer]; ok {
		total += w.Learned
		c.Reasons = append(c.Reasons, fmt.Sprintf("learned preference +%.2f", w.Learned))
	}

	if q.Prefix != "" {
		total += w.Prefix
		c.Reasons = append(c.Reasons, fmt.Sprintf("prefix %q +%.2f", q.Prefix, w.Prefix))
	}

	c.Score = total / float64(q.WordCount())
	return c
}

// tokens compares every expanded query token with every question token.
// A question token may satisfy several query tokens and the other way round.
func (s *scoring) tokens(question []string) (float64, string) {
	w := s.weights
	var exact, partial, similar int
	for _, qt := range s.query.Expanded {
		for _, et := range question {
			switch {
			case qt == et:
				exact++
			case strings.Contains(et, qt) || strings.Contains(qt, et):
				partial++
			case fuzzy.Matches(qt, et, w.FuzzyThreshold):
				similar++
			}
		}
	}
	score := float64(exact)*w.TokenExact + float64(partial)*w.TokenPartial + float64(similar)*w.TokenFuzzy
	return score, fmt.Sprintf("tokens exact=%d partial=%d fuzzy=%d +%.2f", exact, partial, similar, score)
}

// containsPhrase reports whether phrase occurs in text without cutting a word
// at either end. "export data" is found in "export data now" but "a" is not
// found in "cabin".
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(phrase)
		first, _ := utf8.DecodeRuneInString(phrase)
		last, _ := utf8.DecodeLastRuneInString(phrase)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !(isWordRune(first) && start > 0 && isWordRune(before)) &&
			!(isWordRune(last) && end < len(text) && isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// sortCandidates orders by score, highest first. Ties keep knowledge base order.
func sortCandidates(cands []ScoredCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
}
