package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestOwnerIDForEmail(t *testing.T) {
	t.Parallel()

	id := OwnerIDForEmail("Ana@Example.com ")
	assert.Equal(t, id, OwnerIDForEmail("ana@example.com"), "normalized emails share an id")
	assert.NotEqual(t, id, OwnerIDForEmail("bob@example.com"))
	assert.Len(t, id, 36)
}

func TestNewPrincipal(t *testing.T) {
	t.Parallel()

	t.Run("derives id", func(t *testing.T) {
		t.Parallel()
		p, err := NewPrincipal(" ANA@example.com", "", now)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", p.Email)
		assert.Equal(t, OwnerIDForEmail("ana@example.com"), p.ID)
		assert.Equal(t, now, p.SignedInAt)
	})

	t.Run("explicit id", func(t *testing.T) {
		t.Parallel()
		p, err := NewPrincipal("ana@example.com", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", now)
		require.NoError(t, err)
		assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", p.ID)
	})

	tests := []struct {
		name    string
		email   string
		id      string
		wantErr error
	}{
		{"empty email", "  ", "", cliengoerrors.ErrEmptyValue},
		{"bad email", "not-an-email", "", cliengoerrors.ErrInvalidArgument},
		{"display name form", "Ana <ana@example.com>", "", cliengoerrors.ErrInvalidArgument},
		{"bad id", "ana@example.com", "nope", cliengoerrors.ErrInvalidArgument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewPrincipal(tc.email, tc.id, now)
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, cliengoerrors.ErrValidation)
		})
	}
}

func TestFileStore(t *testing.T) {
	t.Parallel()
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.yaml"))

	_, err := s.Load()
	require.ErrorIs(t, err, cliengoerrors.ErrNotSignedIn)

	p, err := NewPrincipal("ana@example.com", "", now)
	require.NoError(t, err)
	require.NoError(t, s.Save(p))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Email, got.Email)
	assert.True(t, p.SignedInAt.Equal(got.SignedInAt))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear(), "clearing twice is fine")
	_, err = s.Load()
	require.ErrorIs(t, err, cliengoerrors.ErrNotSignedIn)
}

func TestFileStore_Corrupt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: [oops"), 0o600))

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, cliengoerrors.ErrNotSignedIn)
	assert.Contains(t, err.Error(), "failed to parse session")
}
