package credstore

import (
	"fmt"

	"naya-cli/internal/config"
	"naya-cli/internal/naya"
)

// NewStoreFromConfig creates a CredentialStore based on the credentials
// config type, wrapping it with value encryption when enabled.
func NewStoreFromConfig(cfg config.CredentialsConfig, logger naya.Logger) (naya.CredentialStore, error) {
	var store naya.CredentialStore
	switch cfg.Type {
	case "memory":
		store = NewMemoryStore()
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file credential store requires path to be set")
		}
		store = NewFileStore(cfg.Path, logger)
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite credential store requires path to be set")
		}
		store = NewSQLiteStore(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown credential store type: %s", cfg.Type)
	}

	if cfg.Encrypted {
		if cfg.IdentityPath == "" {
			return nil, fmt.Errorf("encrypted credential store requires identity_path to be set")
		}
		store = NewAgeStore(store, cfg.IdentityPath, logger)
	}
	return store, nil
}
