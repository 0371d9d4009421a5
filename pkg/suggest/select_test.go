package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(question string, score float64) ScoredCandidate {
	return ScoredCandidate{
		Entry:    &KnowledgeEntry{Question: question, Answer: question + " answer"},
		Score:    score,
		Eligible: true,
	}
}

func TestSelectAcceptanceThreshold(t *testing.T) {
	tests := []struct {
		score    float64
		accepted bool
		desc     string
	}{
		{0.3, false, "exactly at threshold"},
		{0.3000001, true, "just above threshold"},
		{0.0, false, "zero"},
		{2.5, true, "strong match"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result := Select([]ScoredCandidate{cand("q", tt.score)}, DefaultSelectOptions())
			if tt.accepted {
				require.NotNil(t, result.BestMatch)
				assert.Equal(t, tt.score, result.BestMatch.Score)
			} else {
				assert.Nil(t, result.BestMatch)
			}
		})
	}
}

func TestSelectSuggestionRatio(t *testing.T) {
	cands := []ScoredCandidate{
		cand("below", 0.69),
		cand("at ratio", 0.7),
		cand("above", 0.71),
		cand("best", 1.0),
	}
	result := Select(cands, DefaultSelectOptions())

	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "best", result.BestMatch.Question)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "above", result.Suggestions[0].Question)
}

func TestSelectSkipsIneligible(t *testing.T) {
	excluded := cand("excluded", 5)
	excluded.Eligible = false
	result := Select([]ScoredCandidate{excluded, cand("kept", 1)}, DefaultSelectOptions())

	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "kept", result.BestMatch.Question)
	assert.Empty(t, result.Suggestions)
}

func TestSelectNoBestNoSuggestions(t *testing.T) {
	result := Select([]ScoredCandidate{cand("a", 0.2), cand("b", 0.19)}, DefaultSelectOptions())
	assert.Nil(t, result.BestMatch)
	assert.Empty(t, result.Suggestions)

	result = Select(nil, DefaultSelectOptions())
	assert.Nil(t, result.BestMatch)
	assert.NotNil(t, result.Suggestions)
}

func TestSelectDedupe(t *testing.T) {
	cands := []ScoredCandidate{
		cand("How do I export reports?", 1.0),
		cand("how do i export reports?", 0.95),
		cand("How do I export report?", 0.9),
		cand("How do I pay invoices?", 0.85),
	}

	opts := DefaultSelectOptions()
	plain := Select(cands, opts)
	assert.Len(t, plain.Suggestions, 2, "no dedupe by default")

	opts.Dedupe = true
	deduped := Select(cands, opts)
	require.Len(t, deduped.Suggestions, 1)
	assert.Equal(t, "How do I pay invoices?", deduped.Suggestions[0].Question)
}
