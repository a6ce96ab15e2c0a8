package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eshaffer321/ragadmin-go/internal/types"
	"github.com/pkg/errors"
)

// tokenFile is the on-disk shape of the token slot
type tokenFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// FileTokenStore keeps the bearer token in a JSON file
type FileTokenStore struct {
	path   string
	logger types.Logger
	mu     sync.Mutex
}

// NewFileTokenStore creates a token store backed by path
func NewFileTokenStore(path string, logger types.Logger) *FileTokenStore {
	return &FileTokenStore{path: path, logger: logger}
}

// Load returns the stored token, or "" when the file does not exist
func (s *FileTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read token file")
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal token file")
	}

	if s.logger != nil {
		s.logger.Debug("Token loaded", "path", s.path)
	}

	return tf.Token, nil
}

// Save writes token to the file with owner-only permissions
func (s *FileTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create token directory")
	}

	data, err := json.MarshalIndent(tokenFile{Token: token, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal token")
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write token file")
	}

	if s.logger != nil {
		s.logger.Info("Token saved", "path", s.path)
	}

	return nil
}

// Clear removes the token file. A missing file is not an error.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove token file")
	}
	return nil
}

// MemoryTokenStore keeps the token for the life of the process
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates an in-memory store seeded with token
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
