package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/clock"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/store/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, c clock.Clock) storetest.Backend {
		s, err := New(t.TempDir(), WithClock(c))
		require.NoError(t, err)
		return s
	})
}

func sampleFields(name string) client.Fields {
	return client.Fields{
		Name:      name,
		Task:      "task",
		Status:    client.StatusInProgress,
		Priority:  client.PriorityHigh,
		StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore_FileLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	r, err := s.Create(context.Background(), "owner-a", sampleFields("Acme"))
	require.NoError(t, err)

	path := filepath.Join(dir, "clients", "owner-a", r.ID+".yaml")
	require.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, SchemaVersion, raw["schema_version"])
	assert.Equal(t, "Acme", raw["name"])
	assert.Equal(t, "in-progress", raw["status"])
	assert.NotContains(t, raw, "order_position", "unpositioned records omit the field")
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	first, err := New(dir)
	require.NoError(t, err)
	r, err := first.Create(ctx, "owner-a", sampleFields("Acme"))
	require.NoError(t, err)
	pos := 2
	_, err = first.Update(ctx, r.ID, "owner-a", client.Patch{OrderPosition: &pos})
	require.NoError(t, err)

	second, err := New(dir)
	require.NoError(t, err)
	list, err := second.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].OrderPosition)
	assert.Equal(t, 2, *list[0].OrderPosition)
}

func TestStore_ListSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := New(dir)
	require.NoError(t, err)
	_, err = s.Create(ctx, "owner-a", sampleFields("good"))
	require.NoError(t, err)

	ownerDir := filepath.Join(dir, "clients", "owner-a")
	require.NoError(t, os.WriteFile(filepath.Join(ownerDir, "broken.yaml"), []byte("name: [unclosed"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(ownerDir, "noid.yaml"), []byte("name: nobody\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(ownerDir, "notes.txt"), []byte("ignored"), 0o600))

	list, err := s.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "good", list[0].Name)
}

func TestStore_RejectsUnsafeOwner(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, owner := range []string{"..", "a/b", `a\b`} {
		_, err := s.List(ctx, owner)
		require.ErrorIs(t, err, cliengoerrors.ErrValidation, "owner %q", owner)
	}

	_, err = s.Update(ctx, "../escape", "owner-a", client.Patch{})
	require.ErrorIs(t, err, cliengoerrors.ErrClientNotFound)
}

func TestStore_DeleteRemovesLockFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := New(dir)
	require.NoError(t, err)
	r, err := s.Create(ctx, "owner-a", sampleFields("Acme"))
	require.NoError(t, err)
	status := client.StatusCompleted
	_, err = s.Update(ctx, r.ID, "owner-a", client.Patch{Status: &status})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, r.ID, "owner-a"))

	entries, err := os.ReadDir(filepath.Join(dir, "clients", "owner-a"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.yaml")
	require.NoError(t, atomicWrite(path, []byte("a: 1\n")))
	require.NoError(t, atomicWrite(path, []byte("a: 2\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 2\n", string(data))
	assert.NoFileExists(t, path+".tmp")
}

func TestCreateSafe_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.yaml")
	require.NoError(t, createSafe(path, []byte("one")))
	require.ErrorIs(t, createSafe(path, []byte("two")), os.ErrExist)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}
