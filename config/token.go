package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// TokenStore persists the bearer token used for authenticated API calls.
type TokenStore struct {
	path string
}

type tokenFile struct {
	Token string `toml:"token"`
	User  string `toml:"user,omitempty"`
}

// NewTokenStore returns a store backed by the file at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// DefaultTokenPath returns the default location of the token file.
func DefaultTokenPath() string {
	return filepath.Join(Dir(), "auth.toml")
}

// Path returns the file backing the store.
func (s *TokenStore) Path() string {
	return s.path
}

// Token returns the stored token, or "" when none has been saved.
func (s *TokenStore) Token() (string, error) {
	f, err := s.read()
	if err != nil {
		return "", err
	}
	return f.Token, nil
}

// User returns the login saved alongside the token.
func (s *TokenStore) User() (string, error) {
	f, err := s.read()
	if err != nil {
		return "", err
	}
	return f.User, nil
}

func (s *TokenStore) read() (tokenFile, error) {
	var f tokenFile
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tokenFile{}, nil
		}
		return tokenFile{}, fmt.Errorf("reading token from %s: %w", s.path, err)
	}
	return f, nil
}

// Save writes token and user, readable only by the current user.
func (s *TokenStore) Save(token, user string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	out, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("saving token to %s: %w", s.path, err)
	}
	if err := toml.NewEncoder(out).Encode(tokenFile{Token: token, User: user}); err != nil {
		out.Close()
		return fmt.Errorf("saving token to %s: %w", s.path, err)
	}
	return out.Close()
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}
