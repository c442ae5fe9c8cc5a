// Package memory is the in-process ledger store.
package memory

import (
	"context"
	"sync"

	"intentos/internal/core"
	"intentos/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	sessions map[string][]core.Expense
}

func New() *Store {
	return &Store{sessions: make(map[string][]core.Expense)}
}

// Append stores the expense at the end of the session's sequence.
func (s *Store) Append(_ context.Context, sessionID string, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], e)
	return nil
}

func (s *Store) Delete(_ context.Context, sessionID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.sessions[sessionID]
	for i, e := range items {
		if e.ID == id {
			// Copy so snapshots handed out earlier keep their contents.
			next := make([]core.Expense, 0, len(items)-1)
			next = append(next, items[:i]...)
			next = append(next, items[i+1:]...)
			s.sessions[sessionID] = next
			return true, nil
		}
	}
	return false, nil
}

// List returns a copy so callers can't modify the stored sequence.
func (s *Store) List(_ context.Context, sessionID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.sessions[sessionID]...), nil
}

func (s *Store) Purge(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

var _ ledger.Store = (*Store)(nil)
