// Package memstore keeps client records and profiles in process memory.
// It backs the "memory" store backend and most unit tests.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/clock"
	"github.com/mrz1836/cliengo/internal/ctxutil"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
)

// Store is an in-memory client.Store and profile.Store.
type Store struct {
	clock clock.Clock

	mu       sync.RWMutex
	clients  map[string]client.Record
	inserted []string
	profiles map[string]profile.Profile
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:    clock.RealClock{},
		clients:  make(map[string]client.Record),
		profiles: make(map[string]profile.Profile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the owner's records, newest first.
func (s *Store) List(ctx context.Context, ownerID string) ([]client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, cliengoerrors.ErrOwnerRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]client.Record, 0, len(s.inserted))
	for i := len(s.inserted) - 1; i >= 0; i-- {
		r := s.clients[s.inserted[i]]
		if r.OwnerID == ownerID {
			out = append(out, cloneRecord(r))
		}
	}
	client.SortNewestFirst(out)
	return out, nil
}

// Create stores a new record.
func (s *Store) Create(ctx context.Context, ownerID string, f client.Fields) (client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return client.Record{}, err
	}
	if ownerID == "" {
		return client.Record{}, cliengoerrors.ErrOwnerRequired
	}

	r := client.NewRecord(uuid.NewString(), ownerID, f, s.clock.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[r.ID] = r
	s.inserted = append(s.inserted, r.ID)
	return cloneRecord(r), nil
}

// Update applies patch to the owner's record.
func (s *Store) Update(ctx context.Context, id, ownerID string, patch client.Patch) (client.Record, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return client.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.clients[id]
	if !ok || r.OwnerID != ownerID {
		return client.Record{}, cliengoerrors.ErrClientNotFound
	}
	patch.Apply(&r)
	r.UpdatedAt = s.clock.Now()
	s.clients[id] = r
	return cloneRecord(r), nil
}

// Delete removes the owner's record.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.clients[id]
	if !ok || r.OwnerID != ownerID {
		return cliengoerrors.ErrClientNotFound
	}
	delete(s.clients, id)
	s.inserted = slices.DeleteFunc(s.inserted, func(v string) bool { return v == id })
	return nil
}

// Get returns the owner's profile.
func (s *Store) Get(ctx context.Context, ownerID string) (profile.Profile, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return profile.Profile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[ownerID]
	if !ok {
		return profile.Profile{}, cliengoerrors.ErrProfileNotFound
	}
	return p, nil
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
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.OwnerID] = p
	return p, nil
}

// Close is a no-op so Store satisfies the backend interface.
func (s *Store) Close() error {
	return nil
}

// cloneRecord copies the pointer fields so callers cannot mutate stored state.
func cloneRecord(r client.Record) client.Record {
	if r.EndDate != nil {
		end := *r.EndDate
		r.EndDate = &end
	}
	if r.OrderPosition != nil {
		pos := *r.OrderPosition
		r.OrderPosition = &pos
	}
	return r
}

var (
	_ client.Store  = (*Store)(nil)
	_ profile.Store = (*Store)(nil)
)
