package suggest

import (
	"strings"

	"github.com/bastiangx/askserve/internal/utils"
	"github.com/bastiangx/askserve/pkg/fuzzy"
)

// SelectOptions control acceptance and suggestion picking.
type SelectOptions struct {
	// AcceptanceThreshold must be exceeded for a best match to be reported.
	AcceptanceThreshold float64
	// SuggestionRatio is the fraction of the best score a suggestion must exceed.
	SuggestionRatio float64
	MaxSuggestions  int
	// Dedupe drops suggestions whose question is near-identical to one already shown.
	Dedupe           bool
	DedupeSimilarity float64
}

// DefaultSelectOptions returns the built-in selection rules.
func DefaultSelectOptions() SelectOptions {
	return SelectOptions{
		AcceptanceThreshold: 0.3,
		SuggestionRatio:     0.7,
		MaxSuggestions:      2,
		Dedupe:              false,
		DedupeSimilarity:    0.9,
	}
}

// Match is an entry as returned to the host.
type Match struct {
	Question string  `msgpack:"q" json:"question"`
	Answer   string  `msgpack:"a" json:"answer"`
	Subject  string  `msgpack:"s,omitempty" json:"subject,omitempty"`
	Score    float64 `msgpack:"sc" json:"score"`
}

// Result is the answer to one query. BestMatch is nil when nothing scored above the threshold.
type Result struct {
	BestMatch   *Match  `msgpack:"b" json:"best_match"`
	Suggestions []Match `msgpack:"s" json:"suggestions"`
}

func toMatch(c ScoredCandidate) Match {
	return Match{
		Question: c.Entry.Question,
		Answer:   c.Entry.Answer,
		Subject:  c.Entry.Subject,
		Score:    c.Score,
	}
}

// Select sorts cands and picks the best match and its suggestions.
// Both thresholds are exclusive. Without a best match there are no suggestions.
func Select(cands []ScoredCandidate, opts SelectOptions) Result {
	result := Result{Suggestions: []Match{}}

	eligible := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		if c.Eligible && c.Entry != nil {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return result
	}
	sortCandidates(eligible)

	best := eligible[0]
	if best.Score <= opts.AcceptanceThreshold {
		return result
	}
	bm := toMatch(best)
	result.BestMatch = &bm

	cutoff := best.Score * opts.SuggestionRatio
	filter := utils.NewSuggestionFilter(best.Entry.Question)
	shown := []string{strings.ToLower(best.Entry.Question)}

	for _, c := range eligible[1:] {
		if len(result.Suggestions) >= opts.MaxSuggestions {
			break
		}
		if c.Score <= cutoff {
			break
		}
		if opts.Dedupe {
			if !filter.ShouldInclude(c.Entry.Question) || nearDuplicate(c.Entry.Question, shown, opts.DedupeSimilarity) {
				continue
			}
			shown = append(shown, strings.ToLower(c.Entry.Question))
		}
		result.Suggestions = append(result.Suggestions, toMatch(c))
	}
	return result
}

func nearDuplicate(question string, shown []string, threshold float64) bool {
	q := strings.ToLower(question)
	for _, s := range shown {
		if fuzzy.Similarity(q, s) >= threshold {
			return true
		}
	}
	return false
}
