package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/clock"
	"github.com/mrz1836/cliengo/internal/store/storetest"
)

func openTestStore(t *testing.T, c clock.Clock) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "cliengo.db"), WithClock(c))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, c clock.Clock) storetest.Backend {
		return openTestStore(t, c)
	})
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cliengo.db")
	ctx := context.Background()

	first, err := Open(path)
	require.NoError(t, err)
	r, err := first.Create(ctx, "owner-a", client.Fields{
		Name: "Acme", Task: "Site", Status: client.StatusPaused, Priority: client.PriorityLow,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	list, err := second.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
	assert.Equal(t, client.StatusPaused, list[0].Status)
	assert.Equal(t, "2024-06-01", list[0].StartDate.Format("2006-01-02"))
}

func TestRowConversion(t *testing.T) {
	end := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	pos := 7
	r := client.Record{
		ID: "id", OwnerID: "o", Name: "n", Task: "t", Status: client.StatusCompleted, Priority: client.PriorityHigh,
		StartDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), EndDate: &end, OrderPosition: &pos,
		CreatedAt: time.UnixMilli(1_700_000_000_123).UTC(), UpdatedAt: time.UnixMilli(1_700_000_000_456).UTC(),
	}

	row := toClientRow(r)
	require.NotNil(t, row.EndDate)
	assert.Equal(t, "2024-09-30", *row.EndDate)
	assert.Equal(t, "2024-09-01", row.StartDate)

	back := row.record()
	assert.Equal(t, r, back)
}

func TestParseDate_Invalid(t *testing.T) {
	assert.True(t, parseDate("not a date").IsZero())
}
