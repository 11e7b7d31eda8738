package credstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"naya-cli/internal/credstore/migrations"
	"naya-cli/internal/naya"
)

// SQLiteStore keeps credentials in a small sqlite database. Opening and
// migrating happen up front; any runtime error after that degrades the
// store rather than surfacing to callers.
type SQLiteStore struct {
	degrade
	db *sql.DB
}

var _ naya.CredentialStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the credentials database at
// path and brings it to the latest schema. A store is always returned;
// if the database cannot be opened it starts out degraded.
func NewSQLiteStore(path string, logger naya.Logger) *SQLiteStore {
	s := &SQLiteStore{degrade: degrade{logger: logger}}

	db, err := openConnection(path)
	if err != nil {
		s.fail("open", err)
		return s
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		s.fail("migrate", err)
		return s
	}
	s.db = db
	return s
}

func openConnection(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	if !s.available() {
		return "", false
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM credentials WHERE key = ?", key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.fail("get", err)
		}
		return "", false
	}
	return value, true
}

func (s *SQLiteStore) Set(key, value string) {
	if !s.available() {
		return
	}
	_, err := s.db.Exec(`
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		s.fail("set", err)
	}
}

func (s *SQLiteStore) Remove(key string) {
	if !s.available() {
		return
	}
	if _, err := s.db.Exec("DELETE FROM credentials WHERE key = ?", key); err != nil {
		s.fail("remove", err)
	}
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
