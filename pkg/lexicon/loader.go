package lexicon

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// file is the on-disk shape of a lexicon:
//
//	[synonyms]
//	export = ["download", "extract"]
//
//	[[categories]]
//	name = "Reports"
//	weight = 1.5
//	terms = ["report", "export"]
//	related_terms = ["rpt"]
//	context_phrases = ["run a report"]
type file struct {
	Synonyms   SynonymTable `toml:"synonyms"`
	Categories []Category   `toml:"categories"`
}

// Load reads a lexicon from a TOML file.
func Load(path string) (*Lexicon, error) {
	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("decode lexicon %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warnf("Ignoring unknown lexicon keys in %s: %v", path, undecoded)
	}
	for i, c := range f.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("lexicon %s: category %d has no name", path, i)
		}
	}
	log.Debugf("Loaded lexicon from %s: %d synonym groups, %d categories", path, len(f.Synonyms), len(f.Categories))
	return New(f.Synonyms, f.Categories), nil
}

// LoadOrDefault loads path when set and falls back to the built-in tables on any failure.
func LoadOrDefault(path string) *Lexicon {
	if path == "" {
		return Default()
	}
	lex, err := Load(path)
	if err != nil {
		log.Warnf("Failed to load lexicon: %v. Using built-in vocabulary...", err)
		return Default()
	}
	return lex
}
