// Package auth persists the session token and cached account id.
//
// The token is an opaque bearer string issued by the backend on sign-in or
// sign-up. It lives in a 0600 JSON file under the config directory and is
// re-read from disk before every outbound request so that concurrent client
// processes observe the same session.
package auth

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"

	"todoctl/internal/config"
)

// storedToken is the token.json schema.
type storedToken struct {
	Token string `json:"token"`
}

// Store reads and writes the durable session state.
type Store struct {
	tokenPath  string
	userIDPath string
	dir        *config.Config
}

// NewStore creates a Store rooted at the config directory.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		tokenPath:  cfg.TokenPath(),
		userIDPath: cfg.UserIDPath(),
		dir:        cfg,
	}
}

// Token returns the persisted bearer token, or "" when absent or unreadable.
// Always hits the filesystem; the token is never cached in memory.
func (s *Store) Token() string {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return ""
	}
	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		return ""
	}
	return strings.TrimSpace(st.Token)
}

// SaveToken persists the bearer token with mode 0600.
// Empty tokens are rejected.
func (s *Store) SaveToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("refusing to save empty token")
	}
	if err := s.dir.EnsureDir(); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	data, err := json.MarshalIndent(storedToken{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath, data, 0600)
}

// ClearToken removes the persisted token. Missing files are not an error.
func (s *Store) ClearToken() error {
	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// UserID returns the cached account id, or "" when absent.
func (s *Store) UserID() string {
	data, err := os.ReadFile(s.userIDPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveUserID caches the account id alongside the token.
func (s *Store) SaveUserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("refusing to save empty user id")
	}
	if err := s.dir.EnsureDir(); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	return os.WriteFile(s.userIDPath, []byte(id+"\n"), 0600)
}

// ClearUserID removes the cached account id. Missing files are not an error.
func (s *Store) ClearUserID() error {
	if err := os.Remove(s.userIDPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
