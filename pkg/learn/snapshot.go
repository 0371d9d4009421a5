package learn

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is the current snapshot layout.
const SnapshotVersion = 1

// Snapshot is the serializable learned state handed to the host for persistence.
type Snapshot struct {
	Version  int                `msgpack:"v" json:"version"`
	Patterns map[string]Pattern `msgpack:"p" json:"patterns"`
	Log      []FeedbackEvent    `msgpack:"l" json:"log"`
}

// Export copies the learned state.
func (l *Learner) Export() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	patterns := make(map[string]Pattern, len(l.patterns))
	for token, p := range l.patterns {
		patterns[token] = copyPattern(p)
	}
	events := make([]FeedbackEvent, len(l.events))
	copy(events, l.events)

	return Snapshot{
		Version:  SnapshotVersion,
		Patterns: patterns,
		Log:      events,
	}
}

// Import replaces the learned state with s.
// An invalid snapshot leaves the learner empty and returns ErrCorruptSnapshot.
func (l *Learner) Import(s Snapshot) error {
	if err := s.Validate(); err != nil {
		l.Reset()
		log.Warnf("Discarding learned state: %v", err)
		return err
	}

	patterns := make(map[string]*Pattern, len(s.Patterns))
	for token, p := range s.Patterns {
		cp := copyPattern(&p)
		patterns[token] = &cp
	}
	events := make([]FeedbackEvent, len(s.Log))
	copy(events, s.Log)

	l.mu.Lock()
	l.patterns = patterns
	l.events = events
	l.mu.Unlock()

	log.Debugf("Imported learned state: %d tokens, %d events", len(patterns), len(events))
	return nil
}

// Validate checks the snapshot version and the per-token count invariant.
func (s Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, s.Version)
	}
	for token, p := range s.Patterns {
		if token == "" {
			return fmt.Errorf("%w: empty token", ErrCorruptSnapshot)
		}
		sum := 0
		for answer, c := range p.AnswerCounts {
			if c < 0 {
				return fmt.Errorf("%w: negative count for %q/%q", ErrCorruptSnapshot, token, answer)
			}
			sum += c
		}
		if sum != p.TotalUses {
			return fmt.Errorf("%w: token %q total %d does not match counts %d", ErrCorruptSnapshot, token, p.TotalUses, sum)
		}
	}
	return nil
}

// Encode serializes a snapshot with msgpack.
func Encode(s Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a msgpack snapshot. Undecodable input is reported as ErrCorruptSnapshot.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return s, nil
}
