/*
Package lexicon holds the static vocabulary used to broaden queries.

A Lexicon pairs a synonym table (canonical term to synonyms) with subject
categories. Each category carries its own weight, a set of core terms, related
terms and context phrases. Expansion is a controlled broadening: a user asking
about "downloading" should still reach entries phrased around "export".

Both tables are read-only once built and can be shared by concurrent readers.
*/
package lexicon

import (
	"sort"
	"strings"
)

// SynonymTable maps a canonical term to its synonyms.
type SynonymTable map[string][]string

// Category describes how a subject of the knowledge base is weighted.
type Category struct {
	Name           string   `toml:"name"`
	Weight         float64  `toml:"weight"`
	Terms          []string `toml:"terms"`
	RelatedTerms   []string `toml:"related_terms"`
	ContextPhrases []string `toml:"context_phrases"`
}

// Lexicon is an immutable synonym table plus category definitions.
type Lexicon struct {
	synonyms   SynonymTable
	reverse    map[string][]string
	categories []Category
	byName     map[string]int
	terms      []map[string]struct{}
}

// New builds a Lexicon. Terms are lower-cased; the inputs are not retained.
func New(synonyms SynonymTable, categories []Category) *Lexicon {
	l := &Lexicon{
		synonyms: make(SynonymTable, len(synonyms)),
		reverse:  make(map[string][]string),
		byName:   make(map[string]int, len(categories)),
	}

	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		syns := lowerAll(synonyms[k])
		l.synonyms[key] = append(l.synonyms[key], syns...)
		l.addReverse(key, key)
		for _, s := range syns {
			l.addReverse(s, key)
		}
	}

	for _, c := range categories {
		cat := Category{
			Name:           strings.TrimSpace(c.Name),
			Weight:         c.Weight,
			Terms:          lowerAll(c.Terms),
			RelatedTerms:   lowerAll(c.RelatedTerms),
			ContextPhrases: lowerAll(c.ContextPhrases),
		}
		set := make(map[string]struct{}, len(cat.Terms)+len(cat.RelatedTerms))
		for _, t := range cat.Terms {
			set[t] = struct{}{}
		}
		for _, t := range cat.RelatedTerms {
			set[t] = struct{}{}
		}
		l.byName[strings.ToLower(cat.Name)] = len(l.categories)
		l.categories = append(l.categories, cat)
		l.terms = append(l.terms, set)
	}
	return l
}

func (l *Lexicon) addReverse(term, key string) {
	for _, existing := range l.reverse[term] {
		if existing == key {
			return
		}
	}
	l.reverse[term] = append(l.reverse[term], key)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Expand unions tokens with their synonym groups, then with the full term sets of
// every category those touch. Categories are matched once against the synonym
// expanded set, so one category never pulls in another. The result is sorted.
func (l *Lexicon) Expand(tokens []string) []string {
	set := make(map[string]struct{}, len(tokens)*4)
	for _, t := range tokens {
		set[t] = struct{}{}
	}

	for _, t := range tokens {
		for _, key := range l.reverse[t] {
			set[key] = struct{}{}
			for _, s := range l.synonyms[key] {
				set[s] = struct{}{}
			}
		}
	}

	var matched []int
	for i, terms := range l.terms {
		if intersects(set, terms) {
			matched = append(matched, i)
		}
	}
	for _, i := range matched {
		for t := range l.terms[i] {
			set[t] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Category finds a category by subject name, ignoring case.
func (l *Lexicon) Category(subject string) (*Category, bool) {
	i, ok := l.byName[strings.ToLower(strings.TrimSpace(subject))]
	if !ok {
		return nil, false
	}
	return &l.categories[i], true
}

// HasTerm reports whether any of tokens is one of the category's core terms.
func (c *Category) HasTerm(tokens []string) bool {
	for _, t := range tokens {
		for _, term := range c.Terms {
			if t == term {
				return true
			}
		}
	}
	return false
}

// ContextMatch returns the first context phrase contained in normalized text.
func (c *Category) ContextMatch(normalized string) (string, bool) {
	for _, p := range c.ContextPhrases {
		if strings.Contains(normalized, p) {
			return p, true
		}
	}
	return "", false
}

// Synonyms returns the synonyms listed under a canonical term.
func (l *Lexicon) Synonyms(term string) []string {
	return l.synonyms[strings.ToLower(term)]
}

// Categories returns a copy of the category definitions.
func (l *Lexicon) Categories() []Category {
	out := make([]Category, len(l.categories))
	copy(out, l.categories)
	return out
}

// Stats reports sizes for diagnostics.
func (l *Lexicon) Stats() map[string]int {
	return map[string]int{
		"synonymGroups": len(l.synonyms),
		"categories":    len(l.categories),
	}
}

func intersects(set, terms map[string]struct{}) bool {
	for t := range terms {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
