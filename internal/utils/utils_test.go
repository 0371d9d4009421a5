package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("How do I export?")
	assert.False(t, f.ShouldInclude("how do i export?"), "first entry is pre-seeded")
	assert.True(t, f.ShouldInclude("How do I import?"))
	assert.False(t, f.ShouldInclude("  HOW DO I IMPORT?  "))
}

func TestIsValidQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"12345", false},
		{"???", false},
		{"aaaa", false},
		{"hi", true},
		{"how do I export reports", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidQuery(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.bin")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	content := "[scoring]\nacceptance_threshold = 0.4\nmax_suggestions = 3\nratio = 1\n[store]\nbackend = \"file\"\nenabled = true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	scoring, ok := ExtractSection(data, "scoring")
	require.True(t, ok)
	f, ok := ExtractFloat64(scoring, "acceptance_threshold")
	assert.True(t, ok)
	assert.InDelta(t, 0.4, f, 1e-9)
	f, ok = ExtractFloat64(scoring, "ratio")
	assert.True(t, ok, "integers are accepted as floats")
	assert.Equal(t, 1.0, f)
	n, ok := ExtractInt64(scoring, "max_suggestions")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	st, ok := ExtractSection(data, "store")
	require.True(t, ok)
	s, ok := ExtractString(st, "backend")
	assert.True(t, ok)
	assert.Equal(t, "file", s)
	b, ok := ExtractBool(st, "enabled")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = ExtractSection(data, "missing")
	assert.False(t, ok)
}

func TestWritableDataDir(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "askserve")
	pr := &PathResolver{configDir: configDir}
	assert.Equal(t, configDir, pr.WritableDataDir())
	assert.DirExists(t, configDir)

	home := t.TempDir()
	pr = &PathResolver{homeDir: home}
	assert.Equal(t, filepath.Join(home, "."+AppName), pr.WritableDataDir())
}
