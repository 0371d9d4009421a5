package suggest

import (
	"strings"

	"github.com/bastiangx/askserve/pkg/normalize"
	"github.com/bastiangx/askserve/pkg/prefix"
)

// KnowledgeEntry is one question/answer row. Missing fields are empty strings.
type KnowledgeEntry struct {
	Question string `msgpack:"q" json:"question" yaml:"question"`
	Answer   string `msgpack:"a" json:"answer" yaml:"answer"`
	Subject  string `msgpack:"s,omitempty" json:"subject,omitempty" yaml:"subject"`
}

// features are the per-entry values the scorer needs, computed once at load.
type features struct {
	question string
	tokens   []string
	subject  string
}

// KnowledgeBase is an ordered, immutable set of entries.
type KnowledgeBase struct {
	entries  []KnowledgeEntry
	features []features
	index    *prefix.Index
}

// NewKnowledgeBase copies entries and precomputes their matching features.
func NewKnowledgeBase(entries []KnowledgeEntry) *KnowledgeBase {
	kb := &KnowledgeBase{
		entries:  make([]KnowledgeEntry, len(entries)),
		features: make([]features, len(entries)),
	}
	copy(kb.entries, entries)

	answers := make([]string, len(entries))
	for i, e := range kb.entries {
		kb.features[i] = features{
			question: strings.ToLower(e.Question),
			tokens:   normalize.Tokenize(e.Question),
			subject:  normalize.Text(e.Subject),
		}
		answers[i] = e.Answer
	}
	kb.index = prefix.NewIndex(answers)
	return kb
}

// Len returns the number of entries.
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.entries)
}

// Entry returns the entry at position i.
func (kb *KnowledgeBase) Entry(i int) KnowledgeEntry {
	return kb.entries[i]
}

// Entries returns a copy of all entries in load order.
func (kb *KnowledgeBase) Entries() []KnowledgeEntry {
	if kb == nil {
		return nil
	}
	out := make([]KnowledgeEntry, len(kb.entries))
	copy(out, kb.entries)
	return out
}
