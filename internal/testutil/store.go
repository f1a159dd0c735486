package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/mrz1836/cliengo/internal/client"
)

// Call records one store invocation made through a FaultyStore.
type Call struct {
	Op    string
	ID    string
	Owner string
	Patch client.Patch
}

// FaultyStore wraps a client.Store, records every call, and fails the ones
// it is told to fail.
type FaultyStore struct {
	Inner client.Store

	mu          sync.Mutex
	calls       []Call
	failList    error
	failCreate  error
	failDelete  map[string]error
	failUpdate  map[string]error
	updateGate  chan struct{}
	updateEnter chan string
}

// NewFaultyStore wraps inner.
func NewFaultyStore(inner client.Store) *FaultyStore {
	return &FaultyStore{
		Inner:      inner,
		failDelete: make(map[string]error),
		failUpdate: make(map[string]error),
	}
}

// FailList makes List return err. A nil err clears the fault.
func (s *FaultyStore) FailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList = err
}

// FailCreate makes Create return err.
func (s *FaultyStore) FailCreate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreate = err
}

// FailUpdate makes Update of id return err.
func (s *FaultyStore) FailUpdate(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failUpdate, id)
		return
	}
	s.failUpdate[id] = err
}

// FailDelete makes Delete of id return err.
func (s *FaultyStore) FailDelete(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete[id] = err
}

// HoldUpdates blocks every later Update until ReleaseUpdates is called.
// Each blocked call first sends its id on the returned channel.
func (s *FaultyStore) HoldUpdates() <-chan string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateGate = make(chan struct{})
	s.updateEnter = make(chan string, 64)
	return s.updateEnter
}

// ReleaseUpdates unblocks updates held by HoldUpdates. Updates made after
// this call are not held.
func (s *FaultyStore) ReleaseUpdates() {
	s.mu.Lock()
	gate := s.updateGate
	s.updateGate = nil
	s.updateEnter = nil
	s.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Calls returns a copy of the recorded calls.
func (s *FaultyStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallsFor returns the recorded calls for one operation.
func (s *FaultyStore) CallsFor(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets the recorded calls.
func (s *FaultyStore) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *FaultyStore) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

// List implements client.Store.
func (s *FaultyStore) List(ctx context.Context, ownerID string) ([]client.Record, error) {
	s.record(Call{Op: "list", Owner: ownerID})
	s.mu.Lock()
	err := s.failList
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.Inner.List(ctx, ownerID)
}

// Create implements client.Store.
func (s *FaultyStore) Create(ctx context.Context, ownerID string, f client.Fields) (client.Record, error) {
	s.record(Call{Op: "create", Owner: ownerID})
	s.mu.Lock()
	err := s.failCreate
	s.mu.Unlock()
	if err != nil {
		return client.Record{}, err
	}
	return s.Inner.Create(ctx, ownerID, f)
}

// Update implements client.Store.
func (s *FaultyStore) Update(ctx context.Context, id, ownerID string, patch client.Patch) (client.Record, error) {
	s.record(Call{Op: "update", ID: id, Owner: ownerID, Patch: patch})
	s.mu.Lock()
	err := s.failUpdate[id]
	gate, enter := s.updateGate, s.updateEnter
	s.mu.Unlock()

	if gate != nil {
		enter <- id
		select {
		case <-gate:
		case <-ctx.Done():
			return client.Record{}, ctx.Err()
		}
	}
	if err != nil {
		return client.Record{}, err
	}
	return s.Inner.Update(ctx, id, ownerID, patch)
}

// Delete implements client.Store.
func (s *FaultyStore) Delete(ctx context.Context, id, ownerID string) error {
	s.record(Call{Op: "delete", ID: id, Owner: ownerID})
	s.mu.Lock()
	err := s.failDelete[id]
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Inner.Delete(ctx, id, ownerID)
}

var _ client.Store = (*FaultyStore)(nil)
