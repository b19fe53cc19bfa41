// Package session owns the authenticated identity and bearer token.
// It is the only writer of the persisted credential; every other
// component reads session state through it.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julimigwi/Task-Tracker/internal/models"
)

const (
	userFile  = "user.json"
	tokenFile = "token"
)

// Store holds the in-memory session and its persisted copy on disk.
type Store struct {
	dir     string
	user    *models.User
	token   string
	checked bool
}

// NewStore creates a Store persisting under dir. The directory is
// created lazily on the first Login.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) userPath() string  { return filepath.Join(s.dir, userFile) }
func (s *Store) tokenPath() string { return filepath.Join(s.dir, tokenFile) }

// Restore loads the persisted (user, token) pair, if any. A corrupt or
// half-written pair is discarded and both files are cleared; corruption
// never surfaces as an error. Restore always ends with the session
// check marked complete.
func (s *Store) Restore() {
	defer func() { s.checked = true }()

	rawUser, errUser := os.ReadFile(s.userPath())
	rawToken, errToken := os.ReadFile(s.tokenPath())
	if errUser != nil || errToken != nil {
		// Either field missing or unreadable: the pair is incomplete.
		s.reset()
		return
	}

	var user models.User
	if err := json.Unmarshal(rawUser, &user); err != nil || user.ID == "" || len(rawToken) == 0 {
		s.reset()
		return
	}

	s.user = &user
	s.token = string(rawToken)
}

// Login sets the active session and persists both fields. If either
// write fails the session is indeterminate and the error is returned;
// callers must not assume success until Login reports none.
func (s *Store) Login(user models.User, token string) error {
	s.user = &user
	s.token = token

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := os.WriteFile(s.userPath(), raw, 0o600); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	if err := os.WriteFile(s.tokenPath(), []byte(token), 0o600); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Logout clears the in-memory and persisted session, then invokes
// onComplete (used for navigation) if non-nil.
func (s *Store) Logout(onComplete func()) {
	s.reset()
	if onComplete != nil {
		onComplete()
	}
}

// reset clears memory and disk together; user and token are never
// cleared one without the other.
func (s *Store) reset() {
	s.user = nil
	s.token = ""
	_ = os.Remove(s.userPath())
	_ = os.Remove(s.tokenPath())
}

// IsAuthenticated reports whether both user and token are present.
// It is a pure function of in-memory state.
func (s *Store) IsAuthenticated() bool {
	return s.user != nil && s.token != ""
}

// Checked reports whether the startup session check has completed.
func (s *Store) Checked() bool { return s.checked }

// User returns the active user, or nil when logged out.
func (s *Store) User() *models.User { return s.user }

// Token returns the active bearer token, or "" when logged out.
func (s *Store) Token() string { return s.token }
