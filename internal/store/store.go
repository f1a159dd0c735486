// Package store opens the configured client and profile store backend.
package store

import (
	"context"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/config"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
	"github.com/mrz1836/cliengo/internal/store/filestore"
	"github.com/mrz1836/cliengo/internal/store/memstore"
	"github.com/mrz1836/cliengo/internal/store/redisstore"
	"github.com/mrz1836/cliengo/internal/store/sqlstore"
)

// Backend is an open store serving both client records and profiles.
type Backend interface {
	client.Store
	profile.Store
	io.Closer
}

// Open returns the backend named by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	if cfg == nil {
		return nil, cliengoerrors.ErrConfigNil
	}
	sc := cfg.Store

	zerolog.Ctx(ctx).Debug().Str("backend", sc.Backend).Msg("opening store")

	switch sc.Backend {
	case config.BackendFile:
		s, err := filestore.New(sc.File.Dir, filestore.WithLockTimeout(sc.LockTimeout))
		if err != nil {
			return nil, cliengoerrors.Wrap(err, "failed to open file store")
		}
		return s, nil
	case config.BackendSQLite:
		s, err := sqlstore.Open(sc.SQLite.Path)
		if err != nil {
			return nil, cliengoerrors.Wrap(err, "failed to open sqlite store")
		}
		return s, nil
	case config.BackendRedis:
		s, err := redisstore.New(ctx, &redis.Options{
			Addr:        sc.Redis.Addr,
			Password:    sc.Redis.Password,
			DB:          sc.Redis.DB,
			DialTimeout: sc.Redis.DialTimeout,
		}, sc.Redis.Namespace)
		if err != nil {
			return nil, cliengoerrors.Wrap(err, "failed to open redis store")
		}
		return s, nil
	case config.BackendMemory:
		return memstore.New(), nil
	default:
		return nil, cliengoerrors.Wrapf(cliengoerrors.ErrUnknownBackend, "%q", sc.Backend)
	}
}
