// Package session remembers who is signed in on this machine.
package session

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

// Principal is the signed-in user. ID scopes every record the user owns.
type Principal struct {
	ID         string    `yaml:"id" json:"id"`
	Email      string    `yaml:"email" json:"email"`
	SignedInAt time.Time `yaml:"signed_in_at" json:"signed_in_at"`
}

// OwnerIDForEmail derives a stable owner id from an email address, so
// signing in again on another machine reaches the same records.
func OwnerIDForEmail(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+NormalizeEmail(email))).String()
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewPrincipal validates email and builds a Principal. An empty id is
// derived from the email.
func NewPrincipal(email, id string, now time.Time) (Principal, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return Principal{}, cliengoerrors.NewValidationError("email", cliengoerrors.ErrEmptyValue, "email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return Principal{}, cliengoerrors.NewValidationError("email", cliengoerrors.ErrInvalidArgument,
			fmt.Sprintf("%q is not a valid email address", email))
	}

	id = strings.TrimSpace(id)
	if id == "" {
		id = OwnerIDForEmail(email)
	} else if _, err := uuid.Parse(id); err != nil {
		return Principal{}, cliengoerrors.NewValidationError("id", cliengoerrors.ErrInvalidArgument,
			fmt.Sprintf("%q is not a valid uuid", id))
	}
	return Principal{ID: id, Email: email, SignedInAt: now}, nil
}

// FileStore persists the Principal as a YAML file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the signed-in principal, or ErrNotSignedIn.
func (s *FileStore) Load() (Principal, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Principal{}, cliengoerrors.ErrNotSignedIn
		}
		return Principal{}, fmt.Errorf("failed to read session: %w", err)
	}

	var p Principal
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Principal{}, fmt.Errorf("failed to parse session %s: %w", s.path, err)
	}
	if p.ID == "" {
		return Principal{}, cliengoerrors.ErrNotSignedIn
	}
	return p, nil
}

// Save replaces the stored principal.
func (s *FileStore) Save(p Principal) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear signs out. A missing session file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
