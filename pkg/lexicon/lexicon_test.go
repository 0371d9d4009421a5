package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLexicon() *Lexicon {
	return New(
		SynonymTable{
			"export": {"download", "extract"},
			"camper": {"campers", "child"},
		},
		[]Category{
			{Name: "Reports", Weight: 1.5, Terms: []string{"report", "export"}, RelatedTerms: []string{"rpt"}, ContextPhrases: []string{"run a report"}},
			{Name: "Financial", Weight: 1.2, Terms: []string{"payment"}, RelatedTerms: []string{"report"}},
			{Name: "Staff", Weight: 1.0, Terms: []string{"staff"}, RelatedTerms: []string{"cabin"}},
		},
	)
}

func TestExpand(t *testing.T) {
	lex := testLexicon()

	testCases := []struct {
		tokens      []string
		contains    []string
		excludes    []string
		description string
	}{
		{[]string{"download"}, []string{"download", "export", "extract", "report", "rpt"}, []string{"payment"}, "Synonym value pulls key, siblings and category"},
		{[]string{"export"}, []string{"download", "extract", "report", "rpt"}, nil, "Synonym key"},
		{[]string{"child"}, []string{"camper", "campers", "child"}, []string{"report"}, "Synonym without category"},
		{[]string{"report"}, []string{"report", "export", "rpt", "payment"}, []string{"staff", "download"}, "Term shared by two categories"},
		{[]string{"gibberish"}, []string{"gibberish"}, []string{"report"}, "Unknown token passes through"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := lex.Expand(tc.tokens)
			for _, c := range tc.contains {
				assert.Contains(t, got, c)
			}
			for _, e := range tc.excludes {
				assert.NotContains(t, got, e)
			}
			assert.IsNonDecreasing(t, got)
		})
	}
}

// Category expansion runs once; terms added by one category do not trigger another.
func TestExpandIsNotTransitive(t *testing.T) {
	lex := New(nil, []Category{
		{Name: "A", Terms: []string{"alpha"}, RelatedTerms: []string{"bridge"}},
		{Name: "B", Terms: []string{"bridge"}, RelatedTerms: []string{"beta"}},
	})
	got := lex.Expand([]string{"alpha"})
	assert.Contains(t, got, "bridge")
	assert.NotContains(t, got, "beta")
}

func TestExpandEmpty(t *testing.T) {
	assert.Empty(t, testLexicon().Expand(nil))
}

func TestCategory(t *testing.T) {
	lex := testLexicon()
	cat, ok := lex.Category("  reports ")
	require.True(t, ok)
	assert.Equal(t, "Reports", cat.Name)
	assert.True(t, cat.HasTerm([]string{"x", "export"}))
	assert.False(t, cat.HasTerm([]string{"rpt"}))

	phrase, ok := cat.ContextMatch("how do i run a report for cabins")
	assert.True(t, ok)
	assert.Equal(t, "run a report", phrase)

	_, ok = lex.Category("Unknown")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	lex := Default()
	stats := lex.Stats()
	assert.Equal(t, len(DefaultCategories), stats["categories"])
	assert.Contains(t, lex.Expand([]string{"downloading", "download"}), "export")
	assert.Contains(t, lex.Synonyms("EXPORT"), "download")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.toml")
	content := `
[synonyms]
refund = ["reimburse", "chargeback"]

[[categories]]
name = "Financial"
weight = 2.0
terms = ["Refund", "payment"]
related_terms = ["balance"]
context_phrases = ["credit card"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lex, err := Load(path)
	require.NoError(t, err)

	cat, ok := lex.Category("financial")
	require.True(t, ok)
	assert.Equal(t, 2.0, cat.Weight)
	assert.Equal(t, []string{"refund", "payment"}, cat.Terms)
	assert.Contains(t, lex.Expand([]string{"reimburse"}), "balance")
}

func TestLoadRejectsUnnamedCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[categories]]\nweight = 1.0\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	lex := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Equal(t, len(DefaultCategories), lex.Stats()["categories"])
	assert.Equal(t, len(DefaultCategories), LoadOrDefault("").Stats()["categories"])
}
