// Package memory provides an in-process identity record store. Records do not
// survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/modela/identity-gateway/internal/core/domain"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]string
}

func NewStore() *Store {
	return &Store{records: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.records[key] = value
	s.mu.Unlock()
	return nil
}

// Delete is a no-op for a missing key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
