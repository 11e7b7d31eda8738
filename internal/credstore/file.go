package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"naya-cli/internal/naya"
)

// FileStore persists credentials as a JSON map in a single 0600 file.
// Writes go through a temp file plus rename so a crash never leaves a
// half-written store behind.
type FileStore struct {
	degrade
	path string

	mu     sync.Mutex
	values map[string]string
}

var _ naya.CredentialStore = (*FileStore)(nil)

// NewFileStore loads the file at path. A missing file is an empty
// store; an unreadable or corrupt one degrades immediately.
func NewFileStore(path string, logger naya.Logger) *FileStore {
	s := &FileStore{
		degrade: degrade{logger: logger},
		path:    path,
		values:  make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.fail("load", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		s.fail("load", fmt.Errorf("parsing %s: %w", path, err))
		s.values = make(map[string]string)
	}
	return s
}

func (s *FileStore) Get(key string) (string, bool) {
	if !s.available() {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	if !s.available() {
		return
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	s.flush()
}

func (s *FileStore) Remove(key string) {
	if !s.available() {
		return
	}
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	s.flush()
}

func (s *FileStore) flush() {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.Unlock()
	if err != nil {
		s.fail("flush", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		s.fail("flush", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		s.fail("flush", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		s.fail("flush", err)
	}
}
