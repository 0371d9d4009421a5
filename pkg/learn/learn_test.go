package learn

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInvariant(t *testing.T, l *Learner) {
	t.Helper()
	for token, p := range l.Export().Patterns {
		sum := 0
		for _, c := range p.AnswerCounts {
			sum += c
		}
		assert.Equal(t, sum, p.TotalUses, "token %q", token)
	}
}

func TestRecordReinforcesEveryWord(t *testing.T) {
	l := New(Options{})
	event := l.Record("How to Export activities", "AC101.rpt", true)

	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())

	// stop words are kept by the learner
	for _, token := range []string{"how", "to", "export", "activities"} {
		p, ok := l.Pattern(token)
		require.True(t, ok, token)
		assert.Equal(t, 1, p.AnswerCounts["AC101.rpt"])
		assert.Equal(t, 1, p.TotalUses)
	}
	assert.Len(t, l.Log(), 1)
}

func TestRecordUnhelpfulStillReinforcesByDefault(t *testing.T) {
	l := New(Options{})
	l.Record("export", "AC101.rpt", false)
	_, ok := l.Pattern("export")
	assert.True(t, ok)
}

func TestRecordRequireHelpful(t *testing.T) {
	l := New(Options{RequireHelpful: true})
	l.Record("export", "AC101.rpt", false)

	_, ok := l.Pattern("export")
	assert.False(t, ok)
	assert.Len(t, l.Log(), 1, "unhelpful events are still logged")

	l.Record("export", "AC101.rpt", true)
	_, ok = l.Pattern("export")
	assert.True(t, ok)
}

func TestRecordEmptyAnswerLogsOnly(t *testing.T) {
	l := New(Options{})
	l.Record("export", "", true)
	assert.Equal(t, 0, l.Stats()["learnedTokens"])
	assert.Equal(t, 1, l.Stats()["feedbackEvents"])
}

func TestSuggestions(t *testing.T) {
	l := New(Options{})
	l.Record("export activities", "A", true)
	l.Record("export activities", "A", true)
	l.Record("export campers", "B", true)
	l.Record("print campers", "C", true)
	l.Record("print staff", "D", true)

	// export: A 2/3, B 1/3. campers: B 1/2, C 1/2.
	got := l.Suggestions("export campers")
	assert.Equal(t, []string{"B", "A", "C"}, got)

	assert.Nil(t, l.Suggestions("unknown words"))
	assert.Nil(t, l.Suggestions(""))
}

func TestSuggestionsTopN(t *testing.T) {
	l := New(Options{TopN: 1})
	l.Record("export", "A", true)
	l.Record("export", "B", true)
	// tie broken by answer text
	assert.Equal(t, []string{"A"}, l.Suggestions("export"))
}

func TestSuggestionsRiseWithFeedback(t *testing.T) {
	l := New(Options{})
	for i := 0; i < 5; i++ {
		l.Record("export", fmt.Sprintf("other%d", i), true)
	}
	assert.NotContains(t, l.Suggestions("export"), "target")

	l.Record("export", "target", true)
	l.Record("export", "target", true)
	assert.Equal(t, "target", l.Suggestions("export")[0])
}

func TestConcurrentRecordKeepsInvariant(t *testing.T) {
	l := New(Options{})
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Record("export the report", fmt.Sprintf("answer%d", (w+i)%4), i%2 == 0)
				l.Suggestions("export report")
			}
		}(w)
	}
	wg.Wait()

	p, ok := l.Pattern("export")
	require.True(t, ok)
	assert.Equal(t, 800, p.TotalUses)
	assert.Len(t, l.Log(), 800)
	assertInvariant(t, l)
}

func TestExportImportRoundTrip(t *testing.T) {
	l := New(Options{})
	l.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	l.Record("export activities", "AC101.rpt", true)
	l.Record("camper registration", "Use Master Setup > Registration", false)

	data, err := Encode(l.Export())
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	restored := New(Options{})
	require.NoError(t, restored.Import(decoded))
	assert.Equal(t, l.Suggestions("export"), restored.Suggestions("export"))
	require.Len(t, restored.Log(), 2)
	assert.True(t, restored.Log()[0].Timestamp.Equal(l.Log()[0].Timestamp))
	assertInvariant(t, restored)
}

func TestExportIsACopy(t *testing.T) {
	l := New(Options{})
	l.Record("export", "A", true)
	s := l.Export()
	s.Patterns["export"].AnswerCounts["A"] = 99

	p, _ := l.Pattern("export")
	assert.Equal(t, 1, p.AnswerCounts["A"])
}

func TestImportCorruptResets(t *testing.T) {
	testCases := []struct {
		snapshot    Snapshot
		description string
	}{
		{Snapshot{Version: 99}, "Unknown version"},
		{Snapshot{Version: SnapshotVersion, Patterns: map[string]Pattern{
			"export": {AnswerCounts: map[string]int{"A": 2}, TotalUses: 3},
		}}, "Total does not match counts"},
		{Snapshot{Version: SnapshotVersion, Patterns: map[string]Pattern{
			"export": {AnswerCounts: map[string]int{"A": -1, "B": 1}, TotalUses: 0},
		}}, "Negative count"},
		{Snapshot{Version: SnapshotVersion, Patterns: map[string]Pattern{
			"": {AnswerCounts: map[string]int{"A": 1}, TotalUses: 1},
		}}, "Empty token"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			l := New(Options{})
			l.Record("export", "A", true)

			err := l.Import(tc.snapshot)
			assert.True(t, errors.Is(err, ErrCorruptSnapshot))
			assert.Equal(t, 0, l.Stats()["learnedTokens"])
			assert.Equal(t, 0, l.Stats()["feedbackEvents"])
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte{0xc1, 0x00, 0xff})
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}
