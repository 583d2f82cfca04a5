// Package credential isolates the persisted auth token behind a single
// capability interface: get, set, clear. Nothing else in the client
// touches token storage directly.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoToken is returned when no usable token is stored.
var ErrNoToken = errors.New("no stored credential")

// Store is the capability interface for the persisted bearer token.
type Store interface {
	// Token returns the stored token, or ErrNoToken if absent or expired.
	Token() (string, error)
	// SetToken persists a token, replacing any previous one.
	SetToken(token string) error
	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error
}

// tokenFile is the on-disk shape of the cache.
type tokenFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// FileStore keeps the token in a mode-0600 JSON file under the user
// config dir, the CLI counterpart of the browser's localStorage entry.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Token() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token cache: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(raw, &tf); err != nil || tf.Token == "" {
		return "", ErrNoToken
	}

	// An expired token is as good as no token: drop it so the caller
	// goes straight to the login flow instead of collecting a 401.
	claims, err := InspectToken(tf.Token)
	if err != nil {
		_ = s.Clear()
		return "", ErrNoToken
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		_ = s.Clear()
		return "", ErrNoToken
	}

	return tf.Token, nil
}

func (s *FileStore) SetToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token cache dir: %w", err)
	}
	raw, err := json.Marshal(tokenFile{Token: token, SavedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("encode token cache: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear token cache: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	token string
}

func (s *MemStore) Token() (string, error) {
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *MemStore) SetToken(token string) error {
	s.token = token
	return nil
}

func (s *MemStore) Clear() error {
	s.token = ""
	return nil
}
