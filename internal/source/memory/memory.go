package memory

import (
	"context"
	"sync"

	"bilancio/internal/core"
	"bilancio/internal/ledger"
	"bilancio/internal/source"
)

// Store is an in-memory LedgerReader, used by tests and by the CLI once
// a ledger file has been parsed.
type Store struct {
	mu      sync.Mutex
	entries []core.Entry
}

var _ source.LedgerReader = (*Store)(nil)

func New(entries []core.Entry) *Store {
	s := &Store{}
	s.entries = append(s.entries, entries...)
	return s
}

// NewFromFile seeds the store from a ledger CSV on disk.
func NewFromFile(path string) (*Store, error) {
	entries, err := ledger.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}

// ReadLedger returns a copy so callers cannot mutate the seed data.
func (s *Store) ReadLedger(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.entries...), nil
}

func (s *Store) Add(entries ...core.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}
