package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cliengo/internal/config"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/store/filestore"
	"github.com/mrz1836/cliengo/internal/store/memstore"
	"github.com/mrz1836/cliengo/internal/store/redisstore"
	"github.com/mrz1836/cliengo/internal/store/sqlstore"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store.Backend = backend
	cfg.ResolvePaths(t.TempDir())
	return cfg
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		b, err := Open(ctx, testConfig(t, config.BackendFile))
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Close() })
		assert.IsType(t, &filestore.Store{}, b)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig(t, config.BackendSQLite)
		b, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Close() })
		assert.IsType(t, &sqlstore.Store{}, b)
		assert.FileExists(t, cfg.Store.SQLite.Path)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.NewMiniRedis()
		require.NoError(t, mr.Start())
		t.Cleanup(mr.Close)

		cfg := testConfig(t, config.BackendRedis)
		cfg.Store.Redis.Addr = mr.Addr()
		b, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Close() })
		assert.IsType(t, &redisstore.Store{}, b)
	})

	t.Run("memory", func(t *testing.T) {
		b, err := Open(ctx, testConfig(t, config.BackendMemory))
		require.NoError(t, err)
		assert.IsType(t, &memstore.Store{}, b)
	})
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, nil)
	require.ErrorIs(t, err, cliengoerrors.ErrConfigNil)

	_, err = Open(ctx, testConfig(t, "mongo"))
	require.ErrorIs(t, err, cliengoerrors.ErrUnknownBackend)

	cfg := testConfig(t, config.BackendFile)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.Store.File.Dir = filepath.Join(blocker, "store")
	_, err = Open(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file store")
}

