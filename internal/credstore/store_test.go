package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"naya-cli/internal/config"
	"naya-cli/internal/naya"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.Get("token"); ok {
		t.Error("Get() hit on an empty store")
	}

	s.Set("token", "abc")
	if v, ok := s.Get("token"); !ok || v != "abc" {
		t.Errorf("Get() = %q, %v", v, ok)
	}

	s.Remove("token")
	if _, ok := s.Get("token"); ok {
		t.Error("value survived Remove()")
	}
}

func TestFileStore(t *testing.T) {
	logger := naya.NewNopLogger()

	t.Run("persists values across instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")

		s := NewFileStore(path, logger)
		s.Set("token", "abc")
		s.Set("refresh-token", "def")
		s.Remove("refresh-token")

		reloaded := NewFileStore(path, logger)
		if v, ok := reloaded.Get("token"); !ok || v != "abc" {
			t.Errorf("Get(token) = %q, %v", v, ok)
		}
		if _, ok := reloaded.Get("refresh-token"); ok {
			t.Error("removed value came back after reload")
		}
	})

	t.Run("a missing file is an empty store", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"), logger)
		if _, ok := s.Get("token"); ok {
			t.Error("Get() hit on a missing file")
		}
		s.Set("token", "abc")
		if v, _ := s.Get("token"); v != "abc" {
			t.Error("store unusable after missing-file start")
		}
	})

	t.Run("a corrupt file degrades without errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatal(err)
		}

		s := NewFileStore(path, logger)
		// Every operation is a silent no-op.
		s.Set("token", "abc")
		if _, ok := s.Get("token"); ok {
			t.Error("degraded store accepted a write")
		}
		s.Remove("token")
	})

	t.Run("written file is private", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.json")
		s := NewFileStore(path, logger)
		s.Set("token", "abc")

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("file mode = %o, want 600", perm)
		}
	})
}

func TestSQLiteStore(t *testing.T) {
	logger := naya.NewNopLogger()

	t.Run("persists values across reopens", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.db")

		s := NewSQLiteStore(path, logger)
		s.Set("token", "abc")
		s.Set("token", "updated")
		s.Set("api-base", "https://api.example.com/api/v1")
		s.Remove("api-base")
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		reopened := NewSQLiteStore(path, logger)
		defer reopened.Close()
		if v, ok := reopened.Get("token"); !ok || v != "updated" {
			t.Errorf("Get(token) = %q, %v", v, ok)
		}
		if _, ok := reopened.Get("api-base"); ok {
			t.Error("removed value came back after reopen")
		}
	})

	t.Run("an unopenable database degrades without errors", func(t *testing.T) {
		// A directory path cannot be opened as a database file.
		s := NewSQLiteStore(t.TempDir(), logger)
		s.Set("token", "abc")
		if _, ok := s.Get("token"); ok {
			t.Error("degraded store accepted a write")
		}
	})
}

func TestAgeStore(t *testing.T) {
	logger := naya.NewNopLogger()

	t.Run("round trips values through encryption", func(t *testing.T) {
		identity := filepath.Join(t.TempDir(), "keys", "naya.key")
		inner := NewMemoryStore()

		s := NewAgeStore(inner, identity, logger)
		s.Set("token", "secret-value")

		if stored, _ := inner.Get("token"); stored == "secret-value" {
			t.Error("value stored in plaintext")
		}
		if v, ok := s.Get("token"); !ok || v != "secret-value" {
			t.Errorf("Get() = %q, %v", v, ok)
		}
	})

	t.Run("reuses the generated identity", func(t *testing.T) {
		dir := t.TempDir()
		identity := filepath.Join(dir, "naya.key")
		inner := NewMemoryStore()

		first := NewAgeStore(inner, identity, logger)
		first.Set("token", "secret-value")

		second := NewAgeStore(inner, identity, logger)
		if v, ok := second.Get("token"); !ok || v != "secret-value" {
			t.Errorf("Get() with reloaded identity = %q, %v", v, ok)
		}
	})

	t.Run("undecryptable values read as absent", func(t *testing.T) {
		identity := filepath.Join(t.TempDir(), "naya.key")
		inner := NewMemoryStore()
		inner.Set("token", "bm90IGEgY2lwaGVydGV4dA==")

		s := NewAgeStore(inner, identity, logger)
		if _, ok := s.Get("token"); ok {
			t.Error("Get() returned an undecryptable value")
		}
	})
}

func TestNewStoreFromConfig(t *testing.T) {
	logger := naya.NewNopLogger()

	t.Run("builds each backend", func(t *testing.T) {
		dir := t.TempDir()
		cases := map[string]config.CredentialsConfig{
			"memory": {Type: "memory"},
			"file":   {Type: "file", Path: filepath.Join(dir, "creds.json")},
			"sqlite": {Type: "sqlite", Path: filepath.Join(dir, "creds.db")},
		}
		for name, cfg := range cases {
			store, err := NewStoreFromConfig(cfg, logger)
			if err != nil {
				t.Errorf("%s: NewStoreFromConfig() error = %v", name, err)
				continue
			}
			store.Set("k", "v")
			if v, ok := store.Get("k"); !ok || v != "v" {
				t.Errorf("%s: Get() = %q, %v", name, v, ok)
			}
		}
	})

	t.Run("wraps with encryption when enabled", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStoreFromConfig(config.CredentialsConfig{
			Type:         "file",
			Path:         filepath.Join(dir, "creds.json"),
			Encrypted:    true,
			IdentityPath: filepath.Join(dir, "naya.key"),
		}, logger)
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := store.(*AgeStore); !ok {
			t.Errorf("store type = %T, want *AgeStore", store)
		}
	})

	t.Run("rejects bad configurations", func(t *testing.T) {
		bad := []config.CredentialsConfig{
			{Type: "redis"},
			{Type: "file"},
			{Type: "sqlite"},
			{Type: "memory", Encrypted: true},
		}
		for _, cfg := range bad {
			if _, err := NewStoreFromConfig(cfg, logger); err == nil {
				t.Errorf("NewStoreFromConfig(%+v) expected error", cfg)
			}
		}
	})
}
