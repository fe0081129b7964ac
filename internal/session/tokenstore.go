// Package session tracks the authenticated identity: the credential token
// in its on-disk store and the user resolved from it. The store is the
// terminal analogue of the browser's "token" cookie, so a login or logout
// in another process is visible here too.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// tokenFileName holds the credential under the key "token", matching the
// cookie name the browser front end uses.
const tokenFileName = "token.json"

type tokenFile struct {
	Token string `json:"token"`
}

// TokenStore is the file-backed credential store. Safe for concurrent use
// within a process; cross-process changes are picked up on every read.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

// NewTokenStore creates a store rooted at dir (the config directory).
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{path: filepath.Join(dir, tokenFileName)}
}

// Path returns the token file location, for the change watcher.
func (s *TokenStore) Path() string { return s.path }

// Token reads the stored credential. Empty string means no credential;
// read errors are indistinguishable from absence on purpose, since a
// missing token is never fatal.
func (s *TokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return ""
	}
	return tf.Token
}

// Set persists the credential, creating the directory if needed.
func (s *TokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return err
	}
	// 0600: the token is a credential.
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the credential. Clearing an already-empty store is not an
// error.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
