// Package suggest is the matching core: it scores every knowledge base entry
// against a question and picks the best answer plus close alternatives.
package suggest

import "github.com/bastiangx/askserve/pkg/learn"

// IEngine is what hosts (CLI, IPC server) need from the matcher.
type IEngine interface {
	// Initialize replaces the knowledge base and clears learned state.
	Initialize(entries []KnowledgeEntry)

	// Query returns the best match and suggestions for a question.
	Query(text string) Result

	// Score returns all candidates with their reasons, highest first.
	Score(text string) []ScoredCandidate

	// RecordFeedback logs whether answer helped for query.
	RecordFeedback(query, answer string, helpful bool) learn.FeedbackEvent

	// ExportLearnedState and ImportLearnedState move learned state in and out.
	ExportLearnedState() learn.Snapshot
	ImportLearnedState(s learn.Snapshot) error

	// Stats returns statistics about the loaded data
	Stats() map[string]int
}

var _ IEngine = (*Engine)(nil)
