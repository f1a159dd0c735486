// Package storetest holds the behavior every client and profile store
// backend must share. Backend packages run it from their own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/clock"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
)

// Backend is what a suite needs from a store under test.
type Backend interface {
	client.Store
	profile.Store
}

// Factory builds a fresh, empty backend stamped by c.
type Factory func(t *testing.T, c clock.Clock) Backend

var epoch = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

func newClock() clock.Clock {
	return clock.NewStepper(epoch, time.Second)
}

func fields(name string) client.Fields {
	return client.Fields{
		Name:      name,
		Task:      "task for " + name,
		Status:    client.StatusNotStarted,
		Priority:  client.PriorityNormal,
		StartDate: epoch,
	}
}

func names(records []client.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

// Run exercises the client.Store and profile.Store contracts.
func Run(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("Create", func(t *testing.T) { testCreate(t, factory) })
	t.Run("ListNewestFirst", func(t *testing.T) { testListOrder(t, factory) })
	t.Run("OwnerScoping", func(t *testing.T) { testOwnerScoping(t, factory) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, factory) })
	t.Run("PositionUpdates", func(t *testing.T) { testPositions(t, factory) })
	t.Run("ConcurrentPositionUpdates", func(t *testing.T) { testConcurrentPositions(t, factory) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, factory) })
	t.Run("OwnerRequired", func(t *testing.T) { testOwnerRequired(t, factory) })
	t.Run("Profile", func(t *testing.T) { testProfile(t, factory) })
}

func testCreate(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())
	end := epoch.AddDate(0, 1, 0)
	f := fields("Acme")
	f.Description = "first client"
	f.Priority = client.PriorityHigh
	f.EndDate = &end

	r, err := s.Create(ctx, "owner-a", f)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "owner-a", r.OwnerID)
	assert.Equal(t, "Acme", r.Name)
	assert.Equal(t, "first client", r.Description)
	assert.Equal(t, client.PriorityHigh, r.Priority)
	assert.Nil(t, r.OrderPosition)
	assert.False(t, r.CreatedAt.IsZero())

	list, err := s.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, client.PriorityHigh, got.Priority)
	assert.True(t, got.StartDate.Equal(epoch), "start date round trips")
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(end), "end date round trips")
}

func testListOrder(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())
	for _, n := range []string{"first", "second", "third"} {
		_, err := s.Create(ctx, "owner-a", fields(n))
		require.NoError(t, err)
	}

	list, err := s.List(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, names(list))

	empty, err := s.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testOwnerScoping(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())
	mine, err := s.Create(ctx, "owner-a", fields("mine"))
	require.NoError(t, err)
	_, err = s.Create(ctx, "owner-b", fields("theirs"))
	require.NoError(t, err)

	list, err := s.List(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, names(list))

	status := client.StatusCompleted
	_, err = s.Update(ctx, mine.ID, "owner-b", client.Patch{Status: &status})
	require.ErrorIs(t, err, cliengoerrors.ErrClientNotFound)

	err = s.Delete(ctx, mine.ID, "owner-b")
	require.ErrorIs(t, err, cliengoerrors.ErrClientNotFound)

	list, err = s.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, client.StatusNotStarted, list[0].Status)
}

func testUpdate(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())
	r, err := s.Create(ctx, "owner-a", fields("Acme"))
	require.NoError(t, err)

	name := "Acme Inc"
	status := client.StatusAwaitingFeedback
	end := epoch.AddDate(0, 0, 10)
	updated, err := s.Update(ctx, r.ID, "owner-a", client.Patch{Name: &name, Status: &status, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", updated.Name)
	assert.Equal(t, client.StatusAwaitingFeedback, updated.Status)
	assert.Equal(t, "task for Acme", updated.Task, "untouched fields are kept")
	require.NotNil(t, updated.EndDate)
	assert.True(t, updated.UpdatedAt.After(r.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(r.CreatedAt))

	cleared, err := s.Update(ctx, r.ID, "owner-a", client.Patch{ClearEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.EndDate)

	_, err = s.Update(ctx, "missing-id", "owner-a", client.Patch{Status: &status})
	require.ErrorIs(t, err, cliengoerrors.ErrClientNotFound)
}

func testPositions(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())
	a, err := s.Create(ctx, "owner-a", fields("a"))
	require.NoError(t, err)
	b, err := s.Create(ctx, "owner-a", fields("b"))
	require.NoError(t, err)

	zero, one := 0, 1
	_, err = s.Update(ctx, a.ID, "owner-a", client.Patch{OrderPosition: &one})
	require.NoError(t, err)
	_, err = s.Update(ctx, b.ID, "owner-a", client.Patch{OrderPosition: &zero})
	require.NoError(t, err)

	list, err := s.List(ctx, "owner-a")
	require.NoError(t, err)
	positions := make(map[string]int)
	for _, r := range list {
		require.NotNil(t, r.OrderPosition, "record %s should have a position", r.Name)
		positions[r.Name] = *r.OrderPosition
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 0}, positions)
	assert.Equal(t, []string{"b", "a"}, names(list), "list stays in recency order regardless of position")
}

func testConcurrentPositions(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())
	const n = 12
	ids := make([]string, n)
	for i := range n {
		r, err := s.Create(ctx, "owner-a", fields(string(rune('a'+i))))
		require.NoError(t, err)
		ids[i] = r.ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pos := n - 1 - i
			_, err := s.Update(ctx, id, "owner-a", client.Patch{OrderPosition: &pos})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := s.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, list, n)
	client.SortByPosition(list)
	for i, r := range list {
		require.NotNil(t, r.OrderPosition)
		assert.Equal(t, i, *r.OrderPosition)
		assert.Equal(t, ids[n-1-i], r.ID)
	}
}

func testDelete(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())
	a, err := s.Create(ctx, "owner-a", fields("a"))
	require.NoError(t, err)
	_, err = s.Create(ctx, "owner-a", fields("b"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.ID, "owner-a"))
	require.ErrorIs(t, s.Delete(ctx, a.ID, "owner-a"), cliengoerrors.ErrClientNotFound)

	list, err := s.List(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names(list))
}

func testOwnerRequired(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())

	_, err := s.List(ctx, "")
	require.ErrorIs(t, err, cliengoerrors.ErrOwnerRequired)
	_, err = s.Create(ctx, "", fields("x"))
	require.ErrorIs(t, err, cliengoerrors.ErrOwnerRequired)
	_, err = s.Save(ctx, profile.Profile{Name: "nobody"})
	require.ErrorIs(t, err, cliengoerrors.ErrOwnerRequired)
}

func testProfile(t *testing.T, factory Factory) {
	ctx := context.Background()
	s := factory(t, newClock())

	_, err := s.Get(ctx, "owner-a")
	require.ErrorIs(t, err, cliengoerrors.ErrProfileNotFound)

	saved, err := s.Save(ctx, profile.Profile{OwnerID: "owner-a", Name: "Ana"})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	_, err = s.Save(ctx, profile.Profile{OwnerID: "owner-a", Name: "Ana", AvatarURL: "https://cdn.test/a.png"})
	require.NoError(t, err)

	got, err := s.Get(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "https://cdn.test/a.png", got.AvatarURL)

	_, err = s.Get(ctx, "owner-b")
	require.ErrorIs(t, err, cliengoerrors.ErrProfileNotFound)
}
