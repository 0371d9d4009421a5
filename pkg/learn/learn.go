/*
Package learn implements the adaptive feedback loop.

Every piece of feedback is appended to an append-only conversation log and,
for each lower-cased word of the query, increments how often that word led to
the chosen answer. Later queries sum count/total per answer over their words
and the top answers get a fixed boost in scoring.

Counts only ever grow. TotalUses for a token always equals the sum of its
AnswerCounts; both are updated under the same lock.
*/
package learn

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bastiangx/askserve/pkg/normalize"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultTopN is how many learned answers are boosted per query.
const DefaultTopN = 3

// ErrCorruptSnapshot is returned when persisted learned state cannot be trusted.
// The learner has already been reset to empty when this is returned.
var ErrCorruptSnapshot = errors.New("corrupt learned state snapshot")

// FeedbackEvent is one entry of the conversation log.
type FeedbackEvent struct {
	ID        string    `msgpack:"id" json:"id"`
	Query     string    `msgpack:"q" json:"query"`
	Answer    string    `msgpack:"a" json:"answer"`
	Timestamp time.Time `msgpack:"ts" json:"timestamp"`
	Helpful   bool      `msgpack:"h" json:"helpful"`
}

// Pattern counts which answers a single token has led to.
type Pattern struct {
	AnswerCounts map[string]int `msgpack:"counts" json:"answer_counts"`
	TotalUses    int            `msgpack:"total" json:"total_uses"`
}

// Options tune reinforcement.
type Options struct {
	// RequireHelpful only reinforces feedback marked helpful.
	// Off by default: every event is reinforced and helpfulness is only logged.
	RequireHelpful bool
	// TopN caps Suggestions. Zero means DefaultTopN.
	TopN int
}

// Learner owns the learned pattern store and the conversation log.
// Safe for concurrent use; all updates are serialized.
type Learner struct {
	mu       sync.RWMutex
	patterns map[string]*Pattern
	events   []FeedbackEvent
	opts     Options
	now      func() time.Time
}

// New creates an empty Learner.
func New(opts Options) *Learner {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	return &Learner{
		patterns: make(map[string]*Pattern),
		opts:     opts,
		now:      time.Now,
	}
}

// Record appends a feedback event and reinforces the query's tokens toward answer.
func (l *Learner) Record(query, answer string, helpful bool) FeedbackEvent {
	event := FeedbackEvent{
		ID:        uuid.NewString(),
		Query:     query,
		Answer:    answer,
		Timestamp: l.now(),
		Helpful:   helpful,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)

	if answer == "" {
		log.Debugf("Feedback without answer logged only: %q", query)
		return event
	}
	if l.opts.RequireHelpful && !helpful {
		log.Debugf("Unhelpful feedback logged only: %q -> %q", query, answer)
		return event
	}

	for _, token := range normalize.Fields(query) {
		p, ok := l.patterns[token]
		if !ok {
			p = &Pattern{AnswerCounts: make(map[string]int)}
			l.patterns[token] = p
		}
		p.AnswerCounts[answer]++
		p.TotalUses++
	}
	log.Debugf("Reinforced %q for query %q (helpful=%v)", answer, query, helpful)
	return event
}

// scored is an answer with its accumulated learned preference.
type scored struct {
	answer string
	score  float64
}

// Suggestions returns up to TopN answers ranked by summed count/total over the query's tokens.
func (l *Learner) Suggestions(query string) []string {
	tokens := normalize.Fields(query)
	if len(tokens) == 0 {
		return nil
	}

	l.mu.RLock()
	acc := make(map[string]float64)
	for _, token := range tokens {
		p, ok := l.patterns[token]
		if !ok || p.TotalUses == 0 {
			continue
		}
		for answer, count := range p.AnswerCounts {
			acc[answer] += float64(count) / float64(p.TotalUses)
		}
	}
	l.mu.RUnlock()

	if len(acc) == 0 {
		return nil
	}

	ranked := make([]scored, 0, len(acc))
	for answer, score := range acc {
		ranked = append(ranked, scored{answer: answer, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].answer < ranked[j].answer
	})

	n := min(l.opts.TopN, len(ranked))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].answer
	}
	return out
}

// Pattern returns a copy of the statistics stored for token.
func (l *Learner) Pattern(token string) (Pattern, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.patterns[token]
	if !ok {
		return Pattern{}, false
	}
	return copyPattern(p), true
}

// Log returns a copy of the conversation log, oldest first.
func (l *Learner) Log() []FeedbackEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]FeedbackEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Reset drops all learned state.
func (l *Learner) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.patterns = make(map[string]*Pattern)
	l.events = nil
}

// Stats reports store sizes.
func (l *Learner) Stats() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return map[string]int{
		"learnedTokens":  len(l.patterns),
		"feedbackEvents": len(l.events),
	}
}

func copyPattern(p *Pattern) Pattern {
	counts := make(map[string]int, len(p.AnswerCounts))
	for a, c := range p.AnswerCounts {
		counts[a] = c
	}
	return Pattern{AnswerCounts: counts, TotalUses: p.TotalUses}
}
