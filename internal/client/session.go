package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Session is the signed-in state the CLI keeps between runs.
type Session struct {
	UserID       int64     `json:"userId"`
	Username     string    `json:"username"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"accessTokenExpiresAt"`
}

// SessionFile persists a Session as JSON. A missing file means signed out.
type SessionFile struct {
	path string
}

// NewSessionFile returns the session stored at path.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Load returns the stored session, or nil when signed out.
func (f *SessionFile) Load() (*Session, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", f.path, err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", f.path, err)
	}
	if s.AccessToken == "" || s.UserID <= 0 {
		return nil, nil
	}
	return &s, nil
}

// Token returns the stored access token, or "" when signed out or unreadable.
func (f *SessionFile) Token() string {
	s, err := f.Load()
	if err != nil || s == nil {
		return ""
	}
	return s.AccessToken
}

// Save writes s with owner-only permissions.
func (f *SessionFile) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

// Remove signs out. Removing a missing session is not an error.
func (f *SessionFile) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
