// Package prefix detects "reports starting with XX" style constraints and
// indexes answer identifiers so the constraint can be applied as a filter.
package prefix

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// CodeLength is the number of letters a prefix constraint carries.
const CodeLength = 2

var constraintPattern = regexp.MustCompile(
	`\breports?\s+(?:(?:that|which)\s+)?(?:start(?:s|ing)?|begin(?:s|ning)?)\s+with\s+["'‘“]?([a-z]{2})(?:["'’”]|\b)`,
)

// Extract returns the lower-cased letter code a query demands, if any.
// The input is matched case-insensitively and the code may be quoted.
func Extract(query string) (string, bool) {
	m := constraintPattern.FindStringSubmatch(strings.ToLower(query))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Identifier returns the identifying token of an answer: the last
// whitespace-separated token of its first line, lower-cased.
func Identifier(answer string) string {
	first, _, _ := strings.Cut(answer, "\n")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}

// Index maps answer identifiers to entry positions.
// It is built once and only read afterwards.
type Index struct {
	trie  *patricia.Trie
	count int
}

// NewIndex indexes the identifier of every answer by its position.
func NewIndex(answers []string) *Index {
	idx := &Index{trie: patricia.NewTrie()}
	for pos, answer := range answers {
		id := Identifier(answer)
		if id == "" {
			continue
		}
		key := patricia.Prefix(id)
		if item := idx.trie.Get(key); item != nil {
			idx.trie.Set(key, append(item.([]int), pos))
		} else {
			idx.trie.Insert(key, []int{pos})
		}
		idx.count++
	}
	return idx
}

// Eligible returns the positions whose identifier starts with code.
func (idx *Index) Eligible(code string) map[int]struct{} {
	eligible := make(map[int]struct{})
	if idx == nil || code == "" {
		return eligible
	}
	err := idx.trie.VisitSubtree(patricia.Prefix(strings.ToLower(code)), func(p patricia.Prefix, item patricia.Item) error {
		for _, pos := range item.([]int) {
			eligible[pos] = struct{}{}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting identifier index: %v", err)
	}
	return eligible
}

// Len returns how many answers carry an identifier.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.count
}
