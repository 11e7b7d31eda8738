package testutil

import "sync"

// StubCredentialStore is an in-memory credential store for tests. With
// Broken set it silently drops writes and returns nothing, matching the
// degraded behavior of the persistent stores.
type StubCredentialStore struct {
	mu     sync.Mutex
	Broken bool
	values map[string]string
}

func NewStubCredentialStore() *StubCredentialStore {
	return &StubCredentialStore{values: make(map[string]string)}
}

// Seed pre-populates a key, bypassing the Broken switch.
func (s *StubCredentialStore) Seed(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *StubCredentialStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Broken {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

func (s *StubCredentialStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Broken {
		return
	}
	s.values[key] = value
}

func (s *StubCredentialStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Broken {
		return
	}
	delete(s.values, key)
}
