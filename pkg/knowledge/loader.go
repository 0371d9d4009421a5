// Package knowledge loads question/answer datasets from disk and watches them for changes.
package knowledge

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/askserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for files that are not csv, yaml or json.
	ErrUnsupportedFormat = errors.New("unsupported knowledge base format")
	// ErrNoColumns is returned when a CSV header names neither a question nor an answer column.
	ErrNoColumns = errors.New("csv header has no question or answer column")
)

// Format names a supported file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// columnAliases maps accepted header names to entry fields.
var columnAliases = map[string]string{
	"question": "question",
	"q":        "question",
	"answer":   "answer",
	"a":        "answer",
	"subject":  "subject",
	"category": "subject",
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads every entry from the dataset at path.
func Load(path string) ([]suggest.KnowledgeEntry, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	defer f.Close()

	entries, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Debugf("Loaded %d knowledge entries from %s", len(entries), path)
	return entries, nil
}

// Decode parses entries from r in the given format.
func Decode(r io.Reader, format Format) ([]suggest.KnowledgeEntry, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatJSON:
		return decodeJSON(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// decodeCSV reads a header row, then one entry per record.
// Unknown columns are ignored and short rows leave fields empty.
func decodeCSV(r io.Reader) ([]suggest.KnowledgeEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []suggest.KnowledgeEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if field, ok := columnAliases[name]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	_, hasQ := columns["question"]
	_, hasA := columns["answer"]
	if !hasQ && !hasA {
		return nil, ErrNoColumns
	}

	cell := func(record []string, field string) string {
		i, ok := columns[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	entries := []suggest.KnowledgeEntry{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv record %d: %w", line, err)
		}
		entry := suggest.KnowledgeEntry{
			Question: cell(record, "question"),
			Answer:   cell(record, "answer"),
			Subject:  cell(record, "subject"),
		}
		if entry == (suggest.KnowledgeEntry{}) {
			continue
		}
		if entry.Question == "" || entry.Answer == "" {
			log.Warnf("Knowledge entry on line %d is missing a question or answer", line)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// rawEntry accepts both lower-case and capitalized keys.
type rawEntry struct {
	Question  string `yaml:"question" json:"question"`
	Answer    string `yaml:"answer" json:"answer"`
	Subject   string `yaml:"subject" json:"subject"`
	QuestionU string `yaml:"Question" json:"Question"`
	AnswerU   string `yaml:"Answer" json:"Answer"`
	SubjectU  string `yaml:"Subject" json:"Subject"`
}

func (r rawEntry) entry() suggest.KnowledgeEntry {
	return suggest.KnowledgeEntry{
		Question: strings.TrimSpace(firstNonEmpty(r.Question, r.QuestionU)),
		Answer:   strings.TrimSpace(firstNonEmpty(r.Answer, r.AnswerU)),
		Subject:  strings.TrimSpace(firstNonEmpty(r.Subject, r.SubjectU)),
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func decodeYAML(r io.Reader) ([]suggest.KnowledgeEntry, error) {
	var raw []rawEntry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return []suggest.KnowledgeEntry{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return convert(raw), nil
}

func decodeJSON(r io.Reader) ([]suggest.KnowledgeEntry, error) {
	var raw []rawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return convert(raw), nil
}

func convert(raw []rawEntry) []suggest.KnowledgeEntry {
	entries := make([]suggest.KnowledgeEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, r.entry())
	}
	return entries
}
