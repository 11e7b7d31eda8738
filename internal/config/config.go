package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
)

// Config represents the main configuration for the naya client.
type Config struct {
	// ClientID identifies this installation in request logs.
	ClientID string `toml:"client_id" env:"NAYA_CLIENT_ID"`
	BaseDir  string `toml:"base_dir" env:"NAYA_HOME"`
	LogDir   string `toml:"log_dir" env:"NAYA_LOG_DIR"`

	// APIBase is the configured backend override. Empty means: use the
	// persisted override from the credential store, else the built-in
	// default.
	APIBase string `toml:"api_base" env:"NAYA_API_BASE"`

	Credentials CredentialsConfig `toml:"credentials"`
}

// CredentialsConfig configures the credential store backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CredentialsConfig struct {
	Type string `toml:"type" env:"NAYA_CRED_STORE"` // "sqlite", "file", or "memory"

	// Path to the backing file: the SQLite database (type=sqlite) or the
	// JSON key/value file (type=file).
	Path string `toml:"path,omitempty"`

	// Encrypted enables age encryption of stored values using the key
	// pair at IdentityPath.
	Encrypted    bool   `toml:"encrypted"`
	IdentityPath string `toml:"identity_path,omitempty"`
}

// NewConfig creates a Config with the provided values and default paths.
func NewConfig(clientID, baseDir string) *Config {
	return &Config{
		ClientID: clientID,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Credentials: CredentialsConfig{
			Type:         "sqlite",
			Path:         filepath.Join(baseDir, "credentials.db"),
			Encrypted:    true,
			IdentityPath: filepath.Join(baseDir, "keys", "naya.key"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path and applies
// NAYA_* environment overrides on top.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays NAYA_* environment variables onto the config.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
