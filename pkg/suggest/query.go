package suggest

import (
	"github.com/bastiangx/askserve/pkg/lexicon"
	"github.com/bastiangx/askserve/pkg/normalize"
	"github.com/bastiangx/askserve/pkg/prefix"
)

// ExpandedQuery is everything derived from one raw question before scoring.
type ExpandedQuery struct {
	Raw        string
	Normalized string
	// Tokens are the unique stop-word filtered words of the query.
	Tokens []string
	// Expanded is Tokens plus synonym and category terms, sorted.
	Expanded []string
	// Prefix is the lower-cased identifier code the answer must start with, or empty.
	Prefix string
}

// Expand normalizes, tokenizes and broadens raw against lex.
func Expand(raw string, lex *lexicon.Lexicon) ExpandedQuery {
	q := ExpandedQuery{
		Raw:        raw,
		Normalized: normalize.Text(raw),
		Tokens:     normalize.Unique(normalize.Tokenize(raw)),
	}
	q.Expanded = lex.Expand(q.Tokens)
	if code, ok := prefix.Extract(q.Normalized); ok {
		q.Prefix = code
	}
	return q
}

// WordCount is the divisor used to normalize scores. Never below 1.
func (q ExpandedQuery) WordCount() int {
	return max(1, len(q.Tokens))
}
