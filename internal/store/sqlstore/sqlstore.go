// Package sqlstore persists client records and profiles in SQLite through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/clock"
	"github.com/mrz1836/cliengo/internal/ctxutil"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
)

// Store is a client.Store and profile.Store backed by one SQLite database.
type Store struct {
	db    *gorm.DB
	clock clock.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string, opts ...Option) (*Store, error) {
	gdb, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&clientRow{}, &profileRow{}); err != nil {
		closeDB(gdb)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Store{db: gdb, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func openSQLite(path string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	gdb, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := gdb.Exec(`PRAGMA journal_mode=WAL;`).Error; err != nil {
		closeDB(gdb)
		return nil, err
	}
	if err := gdb.Exec(`PRAGMA busy_timeout=5000;`).Error; err != nil {
		closeDB(gdb)
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection queues writers in the pool
	// instead of failing them with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return gdb, nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// List returns the owner's records, newest first.
func (s *Store) List(ctx context.Context, ownerID string) ([]client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, cliengoerrors.ErrOwnerRequired
	}

	var rows []clientRow
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	records := make([]client.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

// Create inserts a new record.
func (s *Store) Create(ctx context.Context, ownerID string, f client.Fields) (client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return client.Record{}, err
	}
	if ownerID == "" {
		return client.Record{}, cliengoerrors.ErrOwnerRequired
	}

	row := toClientRow(client.NewRecord(uuid.NewString(), ownerID, f, s.clock.Now()))
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return client.Record{}, fmt.Errorf("failed to insert client: %w", err)
	}
	return row.record(), nil
}

// Update applies patch inside a transaction.
func (s *Store) Update(ctx context.Context, id, ownerID string, patch client.Patch) (client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return client.Record{}, err
	}

	var out client.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row clientRow
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).Take(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cliengoerrors.ErrClientNotFound
			}
			return err
		}

		r := row.record()
		patch.Apply(&r)
		r.UpdatedAt = s.clock.Now()
		updated := toClientRow(r)
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		out = updated.record()
		return nil
	})
	if err != nil {
		if errors.Is(err, cliengoerrors.ErrClientNotFound) {
			return client.Record{}, err
		}
		return client.Record{}, fmt.Errorf("failed to update client %s: %w", id, err)
	}
	return out, nil
}

// Delete removes the owner's record.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&clientRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete client %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return cliengoerrors.ErrClientNotFound
	}
	return nil
}

// Get returns the owner's profile.
func (s *Store) Get(ctx context.Context, ownerID string) (profile.Profile, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return profile.Profile{}, err
	}

	var row profileRow
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return profile.Profile{}, cliengoerrors.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return row.profile(), nil
}

// Save upserts the owner's profile.
func (s *Store) Save(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return profile.Profile{}, err
	}
	if p.OwnerID == "" {
		return profile.Profile{}, cliengoerrors.ErrOwnerRequired
	}

	p.UpdatedAt = s.clock.Now()
	row := toProfileRow(p)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":       row.Name,
			"avatar_url": row.AvatarURL,
			"updated_at": row.UpdatedMs,
		}),
	}).Create(&row).Error
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return row.profile(), nil
}

var (
	_ client.Store  = (*Store)(nil)
	_ profile.Store = (*Store)(nil)
)
