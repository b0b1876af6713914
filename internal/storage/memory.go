package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps objects in process memory. Used by tests and by the
// memory backend for dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	puts    int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(obj.Body), nil
}

func (s *MemoryStore) Put(_ context.Context, key string, obj Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj.Body = slices.Clone(obj.Body)
	s.objects[key] = obj
	s.puts++
	return nil
}

func (s *MemoryStore) Checksum(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return "", ErrNotFound
	}
	return obj.Checksum, nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// Puts returns how many writes the store has accepted.
func (s *MemoryStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}
