// Package filestore keeps each client record as its own YAML file.
//
// Layout under the store directory:
//
//	clients/<owner>/<id>.yaml   one record
//	clients/<owner>/<id>.lock   advisory lock held while the record is rewritten
//	profiles/<owner>.yaml       the owner's profile
//
// One file per record lets concurrent position updates proceed without
// contending on a shared index.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/clock"
	"github.com/mrz1836/cliengo/internal/constants"
	"github.com/mrz1836/cliengo/internal/ctxutil"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/flock"
	"github.com/mrz1836/cliengo/internal/profile"
)

const (
	// SchemaVersion is written into every record file.
	SchemaVersion = "1"

	fileExtension = ".yaml"
	lockExtension = ".lock"
	// maxConcurrentReads bounds parallel file reads in List.
	maxConcurrentReads = 32
	filePerm           = 0o644
	dirPerm            = 0o755
	// maxRecordFileSize guards List against stray huge files (1MB).
	maxRecordFileSize = 1024 * 1024
)

// document is the on-disk shape of a record.
type document struct {
	SchemaVersion string `yaml:"schema_version"`
	client.Record `yaml:",inline"`
}

// Store is a client.Store and profile.Store over a directory tree.
type Store struct {
	dir         string
	clock       clock.Clock
	lockTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLockTimeout bounds how long a write waits for a record lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store directory: %w", err)
	}
	s := &Store{
		dir:         abs,
		clock:       clock.RealClock{},
		lockTimeout: constants.DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, sub := range []string{constants.ClientsDir, constants.ProfilesDir} {
		if err := os.MkdirAll(filepath.Join(abs, sub), dirPerm); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return s, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// List reads every record file of the owner in parallel. Files that cannot be
// decoded are skipped with a warning so one bad file does not hide the rest.
func (s *Store) List(ctx context.Context, ownerID string) ([]client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := validateSegment(ownerID); err != nil {
		return nil, err
	}

	ownerDir := s.ownerDir(ownerID)
	entries, err := os.ReadDir(ownerDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []client.Record{}, nil
		}
		return nil, fmt.Errorf("failed to list client directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, fileExtension) {
			files = append(files, filepath.Join(ownerDir, name))
		}
	}

	var (
		mu      sync.Mutex
		records = make([]client.Record, 0, len(files))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for _, file := range files {
		g.Go(func() error {
			if err := ctxutil.Canceled(gctx); err != nil {
				return err
			}
			r, loadErr := loadRecord(file)
			if loadErr != nil {
				if errors.Is(loadErr, os.ErrNotExist) {
					return nil // deleted while listing
				}
				zerolog.Ctx(ctx).Warn().Err(loadErr).Str("file", file).Msg("skipping unreadable client record")
				return nil
			}
			if r.OwnerID != ownerID {
				return nil
			}
			mu.Lock()
			records = append(records, r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	client.SortNewestFirst(records)
	return records, nil
}

// Create writes a new record file. The file is created exclusively so an id
// collision can never overwrite an existing record.
func (s *Store) Create(ctx context.Context, ownerID string, f client.Fields) (client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return client.Record{}, err
	}
	if err := validateSegment(ownerID); err != nil {
		return client.Record{}, err
	}
	if err := os.MkdirAll(s.ownerDir(ownerID), dirPerm); err != nil {
		return client.Record{}, fmt.Errorf("failed to create client directory: %w", err)
	}

	r := client.NewRecord(uuid.NewString(), ownerID, f, s.clock.Now())
	data, err := marshalRecord(r)
	if err != nil {
		return client.Record{}, err
	}
	if err := createSafe(s.recordPath(ownerID, r.ID), data); err != nil {
		return client.Record{}, fmt.Errorf("failed to write client %s: %w", r.ID, err)
	}
	return r, nil
}

// Update rewrites one record under its lock.
func (s *Store) Update(ctx context.Context, id, ownerID string, patch client.Patch) (client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return client.Record{}, err
	}
	if err := validateSegment(ownerID); err != nil {
		return client.Record{}, err
	}
	if err := validateID(id); err != nil {
		return client.Record{}, err
	}

	path := s.recordPath(ownerID, id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return client.Record{}, cliengoerrors.ErrClientNotFound
	}

	lock, err := flock.Acquire(ctx, s.lockPath(ownerID, id), s.lockTimeout)
	if err != nil {
		return client.Record{}, err
	}
	defer func() { _ = lock.Release() }()

	r, err := loadRecord(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return client.Record{}, cliengoerrors.ErrClientNotFound
		}
		return client.Record{}, err
	}
	if r.OwnerID != ownerID {
		return client.Record{}, cliengoerrors.ErrClientNotFound
	}

	patch.Apply(&r)
	r.UpdatedAt = s.clock.Now()
	data, err := marshalRecord(r)
	if err != nil {
		return client.Record{}, err
	}
	if err := atomicWrite(path, data); err != nil {
		return client.Record{}, fmt.Errorf("failed to write client %s: %w", id, err)
	}
	return r, nil
}

// Delete removes a record file and its lock file.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := validateSegment(ownerID); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	path := s.recordPath(ownerID, id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cliengoerrors.ErrClientNotFound
	}

	lockPath := s.lockPath(ownerID, id)
	lock, err := flock.Acquire(ctx, lockPath, s.lockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
		_ = os.Remove(lockPath)
	}()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return cliengoerrors.ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client %s: %w", id, err)
	}
	return nil
}

// Get reads the owner's profile.
func (s *Store) Get(ctx context.Context, ownerID string) (profile.Profile, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return profile.Profile{}, err
	}
	if err := validateSegment(ownerID); err != nil {
		return profile.Profile{}, err
	}

	data, err := os.ReadFile(s.profilePath(ownerID)) //#nosec G304 -- owner id is validated
	if err != nil {
		if os.IsNotExist(err) {
			return profile.Profile{}, cliengoerrors.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	var p profile.Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return profile.Profile{}, fmt.Errorf("%w: %w", cliengoerrors.ErrMalformedRecord, err)
	}
	return p, nil
}

// Save writes the owner's profile.
func (s *Store) Save(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return profile.Profile{}, err
	}
	if err := validateSegment(p.OwnerID); err != nil {
		return profile.Profile{}, err
	}

	lock, err := flock.Acquire(ctx, filepath.Join(s.dir, constants.ProfilesDir, p.OwnerID+lockExtension), s.lockTimeout)
	if err != nil {
		return profile.Profile{}, err
	}
	defer func() { _ = lock.Release() }()

	p.UpdatedAt = s.clock.Now()
	data, err := yaml.Marshal(p)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := atomicWrite(s.profilePath(p.OwnerID), data); err != nil {
		return profile.Profile{}, fmt.Errorf("failed to write profile: %w", err)
	}
	return p, nil
}

func (s *Store) ownerDir(ownerID string) string {
	return filepath.Join(s.dir, constants.ClientsDir, ownerID)
}

func (s *Store) recordPath(ownerID, id string) string {
	return filepath.Join(s.ownerDir(ownerID), id+fileExtension)
}

func (s *Store) lockPath(ownerID, id string) string {
	return filepath.Join(s.ownerDir(ownerID), id+lockExtension)
}

func (s *Store) profilePath(ownerID string) string {
	return filepath.Join(s.dir, constants.ProfilesDir, ownerID+fileExtension)
}

// validateSegment rejects owner ids that would escape the store directory.
func validateSegment(ownerID string) error {
	if ownerID == "" {
		return cliengoerrors.ErrOwnerRequired
	}
	if strings.ContainsAny(ownerID, `/\`) || ownerID == "." || ownerID == ".." {
		return cliengoerrors.NewValidationError("owner_id", cliengoerrors.ErrInvalidArgument,
			fmt.Sprintf("%q is not a valid owner id", ownerID))
	}
	return nil
}

// validateID reports malformed ids as not found; no file can exist for them.
func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return cliengoerrors.ErrClientNotFound
	}
	return nil
}

func marshalRecord(r client.Record) ([]byte, error) {
	data, err := yaml.Marshal(document{SchemaVersion: SchemaVersion, Record: r})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal client %s: %w", r.ID, err)
	}
	return data, nil
}

func loadRecord(path string) (client.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return client.Record{}, err
	}
	if info.Size() > maxRecordFileSize {
		return client.Record{}, fmt.Errorf("%w: file too large (%d > %d bytes)",
			cliengoerrors.ErrMalformedRecord, info.Size(), maxRecordFileSize)
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path is built from the store directory
	if err != nil {
		return client.Record{}, err
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return client.Record{}, fmt.Errorf("%w: %w", cliengoerrors.ErrMalformedRecord, err)
	}
	if doc.ID == "" {
		return client.Record{}, fmt.Errorf("%w: missing id", cliengoerrors.ErrMalformedRecord)
	}
	return doc.Record, nil
}

// createSafe writes data to a new file, failing if it already exists.
func createSafe(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm) //#nosec G304 -- path is built from the store directory
	if err != nil {
		return err
	}

	writeErr := func() error {
		if _, err := f.Write(data); err != nil {
			return err
		}
		return f.Sync()
	}()

	closeErr := f.Close()
	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}
	return closeErr
}

// atomicWrite replaces path through a synced temp file and a rename, so
// readers never see a partial record.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is built from the store directory
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

var (
	_ client.Store  = (*Store)(nil)
	_ profile.Store = (*Store)(nil)
)
