package suggest

import (
	"fmt"
	"sync"

	"github.com/bastiangx/askserve/pkg/learn"
	"github.com/bastiangx/askserve/pkg/lexicon"
	"github.com/charmbracelet/log"
)

// Options bundle scoring weights and selection rules.
type Options struct {
	Weights Weights
	Select  SelectOptions
}

// DefaultOptions returns the built-in weights and selection rules.
func DefaultOptions() Options {
	return Options{
		Weights: DefaultWeights(),
		Select:  DefaultSelectOptions(),
	}
}

// Engine owns the knowledge base, the lexicon and a handle to the learner.
// Queries are synchronous; the knowledge base can be swapped while serving.
type Engine struct {
	mu      sync.RWMutex
	kb      *KnowledgeBase
	lex     *lexicon.Lexicon
	learner *learn.Learner
	opts    Options
}

// New creates an Engine with an empty knowledge base.
// A nil lexicon uses the built-in tables, a nil learner starts empty.
func New(lex *lexicon.Lexicon, learner *learn.Learner, opts Options) *Engine {
	if lex == nil {
		lex = lexicon.Default()
	}
	if learner == nil {
		learner = learn.New(learn.Options{})
	}
	return &Engine{
		kb:      NewKnowledgeBase(nil),
		lex:     lex,
		learner: learner,
		opts:    opts,
	}
}

// Initialize loads entries and clears learned state.
func (e *Engine) Initialize(entries []KnowledgeEntry) {
	kb := NewKnowledgeBase(entries)
	e.mu.Lock()
	e.kb = kb
	e.mu.Unlock()
	e.learner.Reset()
	log.Debugf("Engine initialized with %d entries (%d identifiers)", kb.Len(), kb.index.Len())
}

// SwapKnowledgeBase replaces the entries but keeps learned state.
func (e *Engine) SwapKnowledgeBase(entries []KnowledgeEntry) {
	kb := NewKnowledgeBase(entries)
	e.mu.Lock()
	e.kb = kb
	e.mu.Unlock()
	log.Debugf("Knowledge base swapped: %d entries", kb.Len())
}

func (e *Engine) knowledgeBase() *KnowledgeBase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.kb
}

// Query returns the best match for text and close alternatives.
func (e *Engine) Query(text string) Result {
	return Select(e.Score(text), e.opts.Select)
}

// Score returns every candidate for text, highest first, with the reasons behind each score.
// It returns nil for an empty knowledge base or a blank query.
func (e *Engine) Score(text string) []ScoredCandidate {
	kb := e.knowledgeBase()
	if kb.Len() == 0 {
		return nil
	}
	q := Expand(text, e.lex)
	if q.Normalized == "" {
		return nil
	}

	s := &scoring{
		query:   q,
		lex:     e.lex,
		weights: e.opts.Weights,
		learned: make(map[string]struct{}),
	}
	for _, answer := range e.learner.Suggestions(text) {
		s.learned[answer] = struct{}{}
	}
	if q.Prefix != "" {
		s.eligible = kb.index.Eligible(q.Prefix)
		log.Debugf("Prefix %q limits query to %d entries", q.Prefix, len(s.eligible))
	}

	cands := make([]ScoredCandidate, kb.Len())
	for pos := range kb.entries {
		cands[pos] = s.score(kb, pos)
	}
	sortCandidates(cands)
	return cands
}

// Explain returns the expanded form of text, for diagnostics.
func (e *Engine) Explain(text string) ExpandedQuery {
	return Expand(text, e.lex)
}

// RecordFeedback logs the user's verdict and reinforces answer for the query's words.
func (e *Engine) RecordFeedback(query, answer string, helpful bool) learn.FeedbackEvent {
	return e.learner.Record(query, answer, helpful)
}

// ExportLearnedState snapshots the learner for persistence.
func (e *Engine) ExportLearnedState() learn.Snapshot {
	return e.learner.Export()
}

// ImportLearnedState restores a snapshot. A corrupt snapshot leaves the
// learner empty; the returned error is informational.
func (e *Engine) ImportLearnedState(s learn.Snapshot) error {
	return e.learner.Import(s)
}

// RestoreLearnedState decodes and imports an encoded snapshot.
func (e *Engine) RestoreLearnedState(data []byte) error {
	s, err := learn.Decode(data)
	if err != nil {
		e.learner.Reset()
		log.Warnf("Discarding learned state: %v", err)
		return err
	}
	if err := e.learner.Import(s); err != nil {
		return fmt.Errorf("restore learned state: %w", err)
	}
	return nil
}

// Stats returns sizes of the loaded data.
func (e *Engine) Stats() map[string]int {
	kb := e.knowledgeBase()
	stats := map[string]int{
		"entries":     kb.Len(),
		"identifiers": kb.index.Len(),
	}
	for k, v := range e.lex.Stats() {
		stats[k] = v
	}
	for k, v := range e.learner.Stats() {
		stats[k] = v
	}
	return stats
}
