package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/askserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entries = []suggest.KnowledgeEntry{
	{Question: "How do I export the activities report?", Answer: "AC101.rpt", Subject: "Reports"},
	{Question: "How do I set up camper registration?", Answer: "Use Master Setup > Registration", Subject: "Master Setup"},
}

func newHandler(t *testing.T, input string, explain bool) (*InputHandler, *suggest.Engine, *bytes.Buffer) {
	t.Helper()
	engine := suggest.New(nil, nil, suggest.DefaultOptions())
	engine.Initialize(entries)
	var out bytes.Buffer
	return NewInputHandlerWithIO(engine, explain, strings.NewReader(input), &out), engine, &out
}

func TestInputHandlerAnswersAndRecordsFeedback(t *testing.T) {
	h, engine, out := newHandler(t, "how to export activities\ny\n", false)
	hooked := 0
	h.SetFeedbackHook(func() { hooked++ })

	require.NoError(t, h.Start())
	assert.Contains(t, out.String(), "AC101.rpt")
	assert.Contains(t, out.String(), "Thanks, noted.")
	assert.Equal(t, 1, hooked)
	assert.Equal(t, 1, engine.Stats()["feedbackEvents"])
}

func TestInputHandlerSkipsFeedback(t *testing.T) {
	h, engine, _ := newHandler(t, "how to export activities\n\n:q\nnever read\n", false)
	require.NoError(t, h.Start())
	assert.Equal(t, 0, engine.Stats()["feedbackEvents"])
	assert.Equal(t, 1, h.requestCount)
}

func TestInputHandlerNoMatch(t *testing.T) {
	h, engine, out := newHandler(t, "xyz unrelated gibberish\n????\n", false)
	require.NoError(t, h.Start())
	assert.Equal(t, 2, strings.Count(out.String(), "Rephrase your question"))
	assert.Equal(t, 0, engine.Stats()["feedbackEvents"])
}

func TestInputHandlerExplain(t *testing.T) {
	h, _, out := newHandler(t, "how to export activities\n", true)
	require.NoError(t, h.Start())
	assert.Contains(t, out.String(), "category Reports")
}

func TestInputHandlerCommands(t *testing.T) {
	h, _, out := newHandler(t, ":stats\n:bogus\n", false)
	require.NoError(t, h.Start())
	assert.Contains(t, out.String(), "entries")
	assert.Contains(t, out.String(), "Unknown command")
}
