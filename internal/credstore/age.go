package credstore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	"naya-cli/internal/naya"
)

// AgeStore wraps another CredentialStore and encrypts every value with
// an X25519 identity kept at identityPath. The identity file holds the
// private key; its recipient is derived from it, so a single 0600 file
// is the whole key material. Values are stored as base64 of the age
// ciphertext.
//
// The wrapper keeps the degrade contract: a missing or unreadable
// identity makes the store unavailable, and a value that fails to
// decrypt is reported as absent rather than as an error.
type AgeStore struct {
	degrade
	inner     naya.CredentialStore
	identity  *age.X25519Identity
	recipient age.Recipient
}

var _ naya.CredentialStore = (*AgeStore)(nil)

// NewAgeStore loads (or on first use generates) the identity at
// identityPath and returns a store encrypting into inner.
func NewAgeStore(inner naya.CredentialStore, identityPath string, logger naya.Logger) *AgeStore {
	s := &AgeStore{
		degrade: degrade{logger: logger},
		inner:   inner,
	}

	identity, err := loadOrCreateIdentity(identityPath)
	if err != nil {
		s.fail("identity", err)
		return s
	}
	s.identity = identity
	s.recipient = identity.Recipient()
	return s
}

func loadOrCreateIdentity(path string) (*age.X25519Identity, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return parseIdentity(data)
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating identity: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating identity directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(identity.String()+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("writing identity file: %w", err)
	}
	return identity, nil
}

func parseIdentity(data []byte) (*age.X25519Identity, error) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		identity, err := age.ParseX25519Identity(line)
		if err != nil {
			return nil, fmt.Errorf("parsing identity: %w", err)
		}
		return identity, nil
	}
	return nil, fmt.Errorf("no identity found in identity file")
}

func (s *AgeStore) Get(key string) (string, bool) {
	if !s.available() {
		return "", false
	}
	encoded, ok := s.inner.Get(key)
	if !ok {
		return "", false
	}
	plaintext, err := s.decrypt(encoded)
	if err != nil {
		s.logger.Warn("credential store: discarding undecryptable value", "key", key, "error", err)
		return "", false
	}
	return plaintext, true
}

func (s *AgeStore) Set(key, value string) {
	if !s.available() {
		return
	}
	encoded, err := s.encrypt(value)
	if err != nil {
		s.fail("encrypt", err)
		return
	}
	s.inner.Set(key, encoded)
}

func (s *AgeStore) Remove(key string) {
	s.inner.Remove(key)
}

// Close closes the wrapped store if it holds resources.
func (s *AgeStore) Close() error {
	if closer, ok := s.inner.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *AgeStore) encrypt(plaintext string) (string, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, s.recipient)
	if err != nil {
		return "", fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("encrypting value: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing encryption: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *AgeStore) decrypt(encoded string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding value: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(ciphertext), s.identity)
	if err != nil {
		return "", fmt.Errorf("creating decrypted reader: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decrypting value: %w", err)
	}
	return string(plaintext), nil
}
