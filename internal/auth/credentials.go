// Package auth persists the backend bearer token under the data directory.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/storyloomhq/storyloom/internal/logger"
)

const credentialsFile = "credentials.json"

// Credentials holds the stored bearer token.
type Credentials struct {
	Token   string    `json:"token"`
	Email   string    `json:"email,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// Store reads and writes credentials under a data directory.
type Store struct {
	dataDir string
}

// NewStore creates a credential store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) path() string {
	return filepath.Join(s.dataDir, credentialsFile)
}

// Load reads stored credentials. Returns nil (no error) when none exist or
// the file is unreadable; the caller treats that as "not logged in".
func (s *Store) Load() *Credentials {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return nil
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		logger.Warn("Failed to parse credentials file: %v", err)
		return nil
	}
	if creds.Token == "" {
		return nil
	}
	return &creds
}

// Save writes credentials with owner-only permissions.
func (s *Store) Save(creds *Credentials) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.WriteFile(s.path(), data, 0600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}

	logger.Debug("Credentials saved to %s", s.path())
	return nil
}

// Clear removes stored credentials. Used on logout and whenever the backend
// answers 401.
func (s *Store) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials file: %w", err)
	}
	return nil
}
