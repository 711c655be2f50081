// Package session holds the single opaque credential a backend acts
// under. The value is write-once per login: set on success, cleared on
// logout or when the backend detects it has gone stale.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// KeyName is the fixed namespace the credential is persisted under.
const KeyName = "starbook-access-key"

// Store is the opaque credential store. Load returns "" when no
// credential is present; absence is a normal result, not an error.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemStore keeps the credential in process memory. Used by tests and by
// callers that manage persistence themselves.
type MemStore struct {
	token string
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Load() (string, error) { return s.token, nil }

func (s *MemStore) Save(token string) error {
	s.token = token
	return nil
}

func (s *MemStore) Clear() error {
	s.token = ""
	return nil
}

// FileStore persists the credential as a single 0600 file under the
// user's config directory (or an explicit dir).
type FileStore struct {
	path string
}

// NewFileStore places the credential under dir, or under the platform
// config directory when dir is empty.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "starbook")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, KeyName)}, nil
}

func (s *FileStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileStore) Save(token string) error {
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
