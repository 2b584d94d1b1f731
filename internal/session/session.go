// Package session persists the bearer tokens issued at login.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Credentials is the contents of session.yaml.
type Credentials struct {
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token,omitempty"`
	Username     string `yaml:"username,omitempty"`
}

// Parse parses session.yaml bytes.
func Parse(data []byte) (Credentials, error) {
	var c Credentials
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("parsing session: %w", err)
	}
	return c, nil
}

// Marshal serializes credentials to YAML.
func Marshal(c Credentials) ([]byte, error) {
	return yaml.Marshal(c)
}

// Store reads and writes credentials at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored credentials, or ErrNoSession when the file is
// missing or holds no access token.
func (s *Store) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, ErrNoSession
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("reading session: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Credentials{}, err
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		return Credentials{}, ErrNoSession
	}
	return c, nil
}

// Token returns the current access token, or "" when there is none.
func (s *Store) Token() string {
	c, err := s.Load()
	if err != nil {
		return ""
	}
	return c.AccessToken
}

// Save writes credentials with owner-only permissions.
func (s *Store) Save(c Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear removes stored credentials. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
