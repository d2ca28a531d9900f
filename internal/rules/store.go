package rules

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/boadinoel/fsri/internal/domain/pillar"
)

// Store holds the process-wide active rule document behind a single
// atomically-replaceable pointer. Documents are immutable values; a reload
// builds a full replacement and swaps the pointer, so a reader observes
// either the fully-old or fully-new document, never a mix. No lock is held
// across match computation.
type Store struct {
	active atomic.Pointer[Document]
}

// NewStore creates a store with an initial document. doc may be nil; every
// match then returns empty until the first successful reload.
func NewStore(doc *Document) *Store {
	s := &Store{}
	if doc != nil {
		s.active.Store(doc)
	}
	return s
}

// Active returns the current document snapshot.
func (s *Store) Active() *Document {
	return s.active.Load()
}

// Len returns the rule count of the active document.
func (s *Store) Len() int {
	return s.Active().Len()
}

// ReloadBytes validates raw document bytes and, only on full success,
// installs the result as the active document. On any validation failure the
// previously active document remains in force untouched.
func (s *Store) ReloadBytes(raw []byte) (int, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return 0, err
	}
	s.active.Store(doc)
	return doc.Len(), nil
}

// ReloadFile reloads the document from a file path.
func (s *Store) ReloadFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("rules: read %s: %w", path, err)
	}
	return s.ReloadBytes(raw)
}

// Match captures one snapshot of the active document and evaluates it. A
// reload during the call does not affect the result.
func (s *Store) Match(commodity, region string, subScores map[pillar.Pillar]float64, weatherConducive bool, persona string) []Recommendation {
	return Match(s.Active(), commodity, region, subScores, weatherConducive, persona)
}
