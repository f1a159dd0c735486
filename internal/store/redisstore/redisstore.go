// Package redisstore keeps client records and profiles in Redis so several
// machines can share one client list.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/clock"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
)

// maxTxRetries bounds optimistic transaction retries when a watched key
// changes underneath an update.
const maxTxRetries = 5

// Store is a client.Store and profile.Store backed by Redis.
type Store struct {
	rdb       *redis.Client
	namespace string
	clock     clock.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New connects to Redis and verifies the connection with PING.
// namespace isolates this installation's keys.
func New(ctx context.Context, redisOpts *redis.Options, namespace string, opts ...Option) (*Store, error) {
	if namespace == "" {
		return nil, cliengoerrors.NewValidationError("namespace", cliengoerrors.ErrEmptyValue, "namespace is required")
	}

	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s := &Store{
		rdb:       rdb,
		namespace: namespace,
		clock:     clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// List returns the owner's records, newest first. Index entries whose hash
// has gone are skipped.
func (s *Store) List(ctx context.Context, ownerID string) ([]client.Record, error) {
	if ownerID == "" {
		return nil, cliengoerrors.ErrOwnerRequired
	}

	ids, err := s.rdb.ZRevRange(ctx, ClientIndexKey(s.namespace, ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read client index: %w", err)
	}
	if len(ids) == 0 {
		return []client.Record{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, ClientKey(s.namespace, ownerID, id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read clients: %w", err)
	}

	records := make([]client.Record, 0, len(ids))
	for i, cmd := range cmds {
		hash := cmd.Val()
		if len(hash) == 0 {
			continue
		}
		r, err := hashToRecord(hash)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("client_id", ids[i]).Msg("skipping unreadable client record")
			continue
		}
		records = append(records, r)
	}
	client.SortNewestFirst(records)
	return records, nil
}

// Create writes the record hash and its index entry in one transaction.
func (s *Store) Create(ctx context.Context, ownerID string, f client.Fields) (client.Record, error) {
	if ownerID == "" {
		return client.Record{}, cliengoerrors.ErrOwnerRequired
	}

	r := client.NewRecord(uuid.NewString(), ownerID, f, s.clock.Now())
	fields, _ := recordToHash(r)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, ClientKey(s.namespace, ownerID, r.ID), fields)
		pipe.ZAdd(ctx, ClientIndexKey(s.namespace, ownerID), redis.Z{
			Score:  float64(r.CreatedAt.UnixMilli()),
			Member: r.ID,
		})
		return nil
	})
	if err != nil {
		return client.Record{}, fmt.Errorf("failed to write client %s: %w", r.ID, err)
	}
	return r, nil
}

// Update applies patch under WATCH so a concurrent writer to the same record
// forces a retry instead of a lost update.
func (s *Store) Update(ctx context.Context, id, ownerID string, patch client.Patch) (client.Record, error) {
	if ownerID == "" {
		return client.Record{}, cliengoerrors.ErrOwnerRequired
	}
	if id == "" {
		return client.Record{}, cliengoerrors.ErrClientNotFound
	}

	key := ClientKey(s.namespace, ownerID, id)
	var updated client.Record
	txf := func(tx *redis.Tx) error {
		hash, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(hash) == 0 {
			return cliengoerrors.ErrClientNotFound
		}
		r, err := hashToRecord(hash)
		if err != nil {
			return err
		}

		patch.Apply(&r)
		r.UpdatedAt = s.clock.Now()
		fields, absent := recordToHash(r)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			if len(absent) > 0 {
				pipe.HDel(ctx, key, absent...)
			}
			return nil
		})
		if err != nil {
			return err
		}
		updated = r
		return nil
	}

	for range maxTxRetries {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, cliengoerrors.ErrClientNotFound) || errors.Is(err, cliengoerrors.ErrMalformedRecord) {
			return client.Record{}, err
		}
		return client.Record{}, fmt.Errorf("failed to update client %s: %w", id, err)
	}
	return client.Record{}, fmt.Errorf("failed to update client %s: %w", id, redis.TxFailedErr)
}

// Delete removes the record hash and its index entry.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	if ownerID == "" {
		return cliengoerrors.ErrOwnerRequired
	}
	if id == "" {
		return cliengoerrors.ErrClientNotFound
	}

	var del *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, ClientKey(s.namespace, ownerID, id))
		pipe.ZRem(ctx, ClientIndexKey(s.namespace, ownerID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", id, err)
	}
	if del.Val() == 0 {
		return cliengoerrors.ErrClientNotFound
	}
	return nil
}

// Get reads the owner's profile.
func (s *Store) Get(ctx context.Context, ownerID string) (profile.Profile, error) {
	if ownerID == "" {
		return profile.Profile{}, cliengoerrors.ErrOwnerRequired
	}
	hash, err := s.rdb.HGetAll(ctx, ProfileKey(s.namespace, ownerID)).Result()
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	if len(hash) == 0 {
		return profile.Profile{}, cliengoerrors.ErrProfileNotFound
	}
	return hashToProfile(hash), nil
}

// Save writes the owner's profile.
func (s *Store) Save(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if p.OwnerID == "" {
		return profile.Profile{}, cliengoerrors.ErrOwnerRequired
	}
	p.UpdatedAt = s.clock.Now()
	if err := s.rdb.HSet(ctx, ProfileKey(s.namespace, p.OwnerID), profileToHash(p)).Err(); err != nil {
		return profile.Profile{}, fmt.Errorf("failed to write profile: %w", err)
	}
	return p, nil
}
