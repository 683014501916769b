// Package memstore implements store.Store in process memory.
//
// Records are yielded in first-insertion order, which makes scans
// deterministic. Nothing survives a restart; use it for tests and ephemeral
// runs.
package memstore

import (
	"context"
	"iter"
	"sync"

	"github.com/adrestia/pdv/pkg/result"
)

// Store is an in-memory record set.
type Store struct {
	mu      sync.RWMutex
	records map[string]result.Record
	order   []string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		records: make(map[string]result.Record),
	}
}

// Init is a no-op.
func (s *Store) Init(_ context.Context) error {
	return nil
}

// Put replaces the record for rec.Name. A replaced record keeps its
// position in scan order.
func (s *Store) Put(_ context.Context, rec result.Record) error {
	if err := result.ValidateName(rec.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.Name]; !exists {
		s.order = append(s.order, rec.Name)
	}
	s.records[rec.Name] = rec
	return nil
}

// All yields a snapshot taken when iteration starts.
func (s *Store) All(_ context.Context) iter.Seq2[result.Record, error] {
	return func(yield func(result.Record, error) bool) {
		s.mu.RLock()
		snapshot := make([]result.Record, 0, len(s.order))
		for _, name := range s.order {
			snapshot = append(snapshot, s.records[name])
		}
		s.mu.RUnlock()

		for _, rec := range snapshot {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Clear removes every record.
func (s *Store) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	clear(s.records)
	s.order = nil
	return n, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
