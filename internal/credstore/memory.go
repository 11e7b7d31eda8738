package credstore

import (
	"sync"

	"naya-cli/internal/naya"
)

// MemoryStore is an in-process CredentialStore. Nothing survives the
// process; used in tests and as the explicit no-persistence mode.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

var _ naya.CredentialStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
