package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/cliengo/internal/clock"
	"github.com/mrz1836/cliengo/internal/constants"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

// Manager holds one owner's records in display order and keeps that order in
// step with the store.
//
// Status, priority, edit, and delete changes are applied locally only after
// the store confirms them. Reordering is optimistic: the new order is visible
// immediately and restored from a snapshot if any position update fails.
//
// Manager is safe for concurrent use. Store calls are made without holding
// the lock, so a slow store never blocks readers.
type Manager struct {
	store       Store
	ownerID     string
	concurrency int
	clock       clock.Clock

	mu      sync.Mutex
	ordered []Record
	filter  Filter
	// generation increases whenever the whole ordering is replaced. A
	// reorder only restores its snapshot if nothing replaced the ordering
	// after it started.
	generation uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithConcurrency bounds how many position updates run in parallel.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithClock sets the clock used for creation defaults.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// NewManager creates a Manager for ownerID. Call Load to fetch the records.
func NewManager(store Store, ownerID string, opts ...Option) (*Manager, error) {
	if ownerID == "" {
		return nil, cliengoerrors.ErrOwnerRequired
	}
	m := &Manager{
		store:       store,
		ownerID:     ownerID,
		concurrency: constants.DefaultReorderConcurrency,
		clock:       clock.RealClock{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// OwnerID returns the owner every store call is scoped to.
func (m *Manager) OwnerID() string {
	return m.ownerID
}

// Load fetches the owner's records and rebuilds the display order.
// On failure the previous records are kept.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	started := m.generation
	m.mu.Unlock()

	records, err := m.store.List(ctx, m.ownerID)
	if err != nil {
		return cliengoerrors.NewStoreError("list", "", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != started {
		// A reorder replaced the ordering while the list was in flight.
		zerolog.Ctx(ctx).Debug().
			Uint64("started", started).
			Uint64("current", m.generation).
			Msg("discarding superseded client list")
		return nil
	}
	m.setRecordsLocked(records)
	return nil
}

func (m *Manager) setRecordsLocked(records []Record) {
	ordered := slices.Clone(records)
	SortByPosition(ordered)
	m.ordered = ordered
	m.generation++
}

// Records returns every record in display order.
func (m *Manager) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.ordered)
}

// Get returns the local copy of a record.
func (m *Manager) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return Record{}, false
	}
	return m.ordered[i], true
}

// SetFilter replaces the filter used by View and ApplyReorder.
func (m *Manager) SetFilter(f Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
	return nil
}

// Filter returns the current filter.
func (m *Manager) Filter() Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

// View returns the displayed records: the current filter applied to the
// display order.
func (m *Manager) View() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ApplyFilter(m.ordered, m.filter)
}

// ApplyFilter projects the display order through f without storing f.
func (m *Manager) ApplyFilter(f Filter) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ApplyFilter(m.ordered, f)
}

// Stats counts records over the full, unfiltered list.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{Total: len(m.ordered)}
	for _, r := range m.ordered {
		switch r.Status {
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted:
			s.Completed++
		case StatusAwaitingFeedback:
			s.AwaitingFeedback++
		case StatusNotStarted, StatusNegotiating, StatusPaused, StatusProblematic, StatusFixedRecurring:
		}
	}
	return s
}

// ApplyReorder moves the displayed record at sourceIndex to targetIndex.
// Both indices refer to View. The new order is applied locally at once and
// every record is then sent its zero-based position. If any of those updates
// fails the previous order is restored and a single
// *cliengoerrors.PartialReorderError is returned. Creates, edits, and deletes
// confirmed while the updates were in flight survive the restore.
func (m *Manager) ApplyReorder(ctx context.Context, sourceIndex, targetIndex int) error {
	m.mu.Lock()
	view := ApplyFilter(m.ordered, m.filter)
	if err := checkIndex("source", sourceIndex, len(view)); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := checkIndex("target", targetIndex, len(view)); err != nil {
		m.mu.Unlock()
		return err
	}
	if sourceIndex == targetIndex {
		m.mu.Unlock()
		return nil
	}

	snapshot := m.ordered
	m.ordered = withSequentialPositions(reorderWithin(m.ordered, view, sourceIndex, targetIndex))
	m.generation++
	generation := m.generation
	targets := slices.Clone(m.ordered)
	m.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("owner_id", m.ownerID).
		Int("from", sourceIndex).
		Int("to", targetIndex).
		Int("records", len(targets)).
		Msg("persisting client order")

	err := m.persistPositions(ctx, targets)
	if err == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation == generation {
		m.ordered = restoreOrder(snapshot, m.ordered)
		m.generation++
	} else {
		logger.Debug().
			Uint64("reorder", generation).
			Uint64("current", m.generation).
			Msg("reorder failed after being superseded, keeping newer order")
	}
	return err
}

func checkIndex(name string, i, n int) error {
	if i < 0 || i >= n {
		return cliengoerrors.NewValidationError(name, cliengoerrors.ErrIndexOutOfRange,
			fmt.Sprintf("%s index %d is outside 0..%d", name, i, n-1))
	}
	return nil
}

// persistPositions sends every record its index as position. All calls are
// attempted even after a failure; the failures are joined into one error.
func (m *Manager) persistPositions(ctx context.Context, targets []Record) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(m.concurrency)

	for i, r := range targets {
		g.Go(func() error {
			pos := i
			if _, err := m.store.Update(ctx, r.ID, m.ownerID, Patch{OrderPosition: &pos}); err != nil {
				mu.Lock()
				errs = append(errs, cliengoerrors.NewStoreError("update position", r.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) == 0 {
		return nil
	}
	zerolog.Ctx(ctx).Warn().
		Int("failed", len(errs)).
		Int("attempted", len(targets)).
		Msg("client order was not fully persisted")
	return &cliengoerrors.PartialReorderError{
		Attempted: len(targets),
		Failed:    len(errs),
		Err:       errors.Join(errs...),
	}
}

// SetStatus changes a record's status once the store confirms it.
func (m *Manager) SetStatus(ctx context.Context, id string, status Status) (Record, error) {
	return m.Update(ctx, id, Patch{Status: &status})
}

// SetPriority changes a record's priority once the store confirms it.
func (m *Manager) SetPriority(ctx context.Context, id string, priority Priority) (Record, error) {
	return m.Update(ctx, id, Patch{Priority: &priority})
}

// Update applies patch to a record once the store confirms it. The record
// keeps its place in the display order unless the patch sets a position.
func (m *Manager) Update(ctx context.Context, id string, patch Patch) (Record, error) {
	if err := patch.Validate(); err != nil {
		return Record{}, err
	}
	if local, ok := m.Get(id); ok {
		patch.Apply(&local)
		if err := local.Validate(); err != nil {
			return Record{}, err
		}
	}

	updated, err := m.store.Update(ctx, id, m.ownerID, patch)
	if err != nil {
		return Record{}, cliengoerrors.NewStoreError("update", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		m.ordered = slices.Clone(m.ordered)
		m.ordered[i] = updated
		if patch.OrderPosition != nil {
			SortByPosition(m.ordered)
		}
	}
	return updated, nil
}

// Create validates f, stores it, and adds the new record ahead of the other
// unpositioned records.
func (m *Manager) Create(ctx context.Context, f Fields) (Record, error) {
	f = f.WithDefaults(m.clock.Now())
	if err := f.Validate(); err != nil {
		return Record{}, err
	}

	created, err := m.store.Create(ctx, m.ownerID, f)
	if err != nil {
		return Record{}, cliengoerrors.NewStoreError("create", "", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ordered := make([]Record, 0, len(m.ordered)+1)
	ordered = append(ordered, created)
	ordered = append(ordered, m.ordered...)
	SortByPosition(ordered)
	m.ordered = ordered
	return created, nil
}

// Delete removes a record once the store confirms it.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id, m.ownerID); err != nil {
		return cliengoerrors.NewStoreError("delete", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		m.ordered = slices.Delete(slices.Clone(m.ordered), i, i+1)
	}
	return nil
}

func (m *Manager) indexLocked(id string) int {
	return slices.IndexFunc(m.ordered, func(r Record) bool { return r.ID == id })
}
