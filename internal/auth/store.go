package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Makepad-fr/talentlink/internal/model"
)

const (
	credFileName = "credentials.json"
	// TokenEnv overrides the stored session with a raw access token.
	TokenEnv = "TALENTLINK_TOKEN"
)

// ErrNotLoggedIn means neither the env override nor a credentials file exists.
var ErrNotLoggedIn = errors.New("not logged in")

type Credentials struct {
	Session   model.Session `json:"session"`
	Source    string        `json:"source"`     // "env" | "file"
	CreatedAt time.Time     `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time    `json:"expires_at"` // from the access token's exp claim
}

// Expired reports whether the access token is past its exp claim.
func (c *Credentials) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Store keeps the session in <dir>/credentials.json.
type Store struct {
	dir string
}

func NewStore(dir string) *Store { return &Store{dir: dir} }

func (s *Store) path() string { return filepath.Join(s.dir, credFileName) }

// Load returns the active credentials: TALENTLINK_TOKEN wins over the file.
func (s *Store) Load() (*Credentials, error) {
	// 1) env override
	if env := strings.TrimSpace(os.Getenv(TokenEnv)); env != "" {
		tok := StripBearer(env)
		c := &Credentials{Session: model.Session{Access: tok}, Source: "env"}
		if claims, err := ParseClaims(tok); err == nil {
			c.Session.User.ID = claims.UserID
			c.ExpiresAt = claims.ExpiresAt
		}
		return c, nil
	}

	// 2) file
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	c.Session.Access = StripBearer(c.Session.Access)
	if c.Session.Access == "" {
		return nil, ErrNotLoggedIn
	}
	return &c, nil
}

// Save persists a session returned by login.
func (s *Store) Save(sess model.Session) error {
	sess.Access = StripBearer(strings.TrimSpace(sess.Access))
	if sess.Access == "" {
		return fmt.Errorf("empty token")
	}
	// ensure the data dir exists with 0700
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	c := Credentials{
		Session:   sess,
		Source:    "file",
		CreatedAt: time.Now(),
	}
	if claims, err := ParseClaims(sess.Access); err == nil {
		c.ExpiresAt = claims.ExpiresAt
		if c.Session.User.ID == 0 {
			c.Session.User.ID = claims.UserID
		}
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// owner-only
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func StripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
