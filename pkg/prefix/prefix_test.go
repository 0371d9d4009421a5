package prefix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	testCases := []struct {
		query       string
		code        string
		found       bool
		description string
	}{
		{"report starting with AB", "ab", true, "Singular report"},
		{"show me reports beginning with cf please", "cf", true, "Plural with beginning"},
		{"Which REPORTS START WITH Ac?", "ac", true, "Upper case"},
		{"reports that start with zz", "zz", true, "Relative clause"},
		{"reports which begin with mx", "mx", true, "Which begin"},
		{"reports starting with 'AB'", "ab", true, "Single quoted code"},
		{`reports beginning with "cf"?`, "cf", true, "Double quoted code"},
		{"reports starting with ‘mx’", "mx", true, "Curly quoted code"},
		{"reports starting with 'abc'", "", false, "Quoted three letter code"},
		{"reports with accounts", "", false, "No verb means no constraint"},
		{"report starting with abc", "", false, "Three letter code is not a constraint"},
		{"starting with ab", "", false, "Missing report keyword"},
		{"", "", false, "Empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			code, ok := Extract(tc.query)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "ac101.rpt", Identifier("AC101.rpt"))
	assert.Equal(t, "ab200.rpt", Identifier("Run the report AB200.rpt\nThen print it"))
	assert.Equal(t, "", Identifier(""))
	assert.Equal(t, "", Identifier("\nsecond line only"))
	assert.Equal(t, "registration", Identifier("Use Master Setup > Registration"))
}

func TestIndexEligible(t *testing.T) {
	idx := NewIndex([]string{
		"AB101.rpt",
		"Use Master Setup > Registration",
		"Open AB200.rpt",
		"AC300.rpt",
		"",
		"AB101.rpt",
	})

	assert.Equal(t, 5, idx.Len())
	assert.Equal(t, map[int]struct{}{0: {}, 2: {}, 5: {}}, idx.Eligible("ab"))
	assert.Equal(t, map[int]struct{}{3: {}}, idx.Eligible("AC"))
	assert.Empty(t, idx.Eligible("zz"))
	assert.Empty(t, idx.Eligible(""))

	var nilIdx *Index
	assert.Empty(t, nilIdx.Eligible("ab"))
}
