package client

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func rec(id string, pos ...int) Record {
	r := Record{ID: id, Name: id, Task: "task " + id, Status: StatusNotStarted, Priority: PriorityNormal}
	if len(pos) > 0 {
		p := pos[0]
		r.OrderPosition = &p
	}
	return r
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestSortByPosition(t *testing.T) {
	tests := []struct {
		name string
		in   []Record
		want []string
	}{
		{"empty", nil, []string{}},
		{"all unpositioned keep arrival order", []Record{rec("a"), rec("b"), rec("c")}, []string{"a", "b", "c"}},
		{"positioned ascending", []Record{rec("a", 2), rec("b", 0), rec("c", 1)}, []string{"b", "c", "a"}},
		{"unpositioned go last", []Record{rec("x"), rec("a", 5), rec("y"), rec("b", 1)}, []string{"b", "a", "x", "y"}},
		{"ties are stable", []Record{rec("a", 1), rec("b", 0), rec("c", 1), rec("d", 1)}, []string{"b", "a", "c", "d"}},
		{"gaps are fine", []Record{rec("a", 100), rec("b", 7)}, []string{"b", "a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := append([]Record(nil), tc.in...)
			SortByPosition(records)
			if diff := cmp.Diff(tc.want, ids(records)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a, b, c := rec("a"), rec("b"), rec("c")
	a.CreatedAt = base
	b.CreatedAt = base.Add(time.Hour)
	c.CreatedAt = base.Add(time.Hour)

	records := []Record{a, b, c}
	SortNewestFirst(records)
	assert.Equal(t, []string{"b", "c", "a"}, ids(records))
}

func TestMoveItem(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"b", "c", "a", "d"}, moveItem(in, 0, 2))
	assert.Equal(t, []string{"d", "a", "b", "c"}, moveItem(in, 3, 0))
	assert.Equal(t, []string{"a", "c", "b", "d"}, moveItem(in, 1, 2))
	assert.Equal(t, []string{"a", "b", "c", "d"}, in, "input must not change")
}

func TestReorderWithin(t *testing.T) {
	full := []Record{rec("a"), rec("x"), rec("b"), rec("y"), rec("c")}
	view := []Record{full[0], full[2], full[4]}

	got := reorderWithin(full, view, 0, 2)

	assert.Equal(t, []string{"b", "x", "c", "y", "a"}, ids(got), "hidden records keep their slots")
	assert.Equal(t, []string{"a", "x", "b", "y", "c"}, ids(full), "input must not change")
}

func TestWithSequentialPositions(t *testing.T) {
	in := []Record{rec("a", 9), rec("b")}
	out := withSequentialPositions(in)

	assert.Equal(t, 0, *out[0].OrderPosition)
	assert.Equal(t, 1, *out[1].OrderPosition)
	assert.Equal(t, 9, *in[0].OrderPosition, "input must not change")
	assert.Nil(t, in[1].OrderPosition)
}

func TestRestoreOrder(t *testing.T) {
	snapshot := []Record{rec("a"), rec("b"), rec("c")}

	t.Run("puts the old order back", func(t *testing.T) {
		current := withSequentialPositions([]Record{rec("b"), rec("c"), rec("a")})

		got := restoreOrder(snapshot, current)

		assert.Equal(t, []string{"a", "b", "c"}, ids(got))
		for _, r := range got {
			assert.Nil(t, r.OrderPosition, r.ID)
		}
	})

	t.Run("keeps current values and drops deleted ids", func(t *testing.T) {
		c := rec("c", 0)
		c.Status = StatusCompleted
		current := []Record{c, rec("a", 1)}

		got := restoreOrder(snapshot, current)

		assert.Equal(t, []string{"a", "c"}, ids(got))
		assert.Equal(t, StatusCompleted, got[1].Status)
	})

	t.Run("new records lead the unpositioned tail", func(t *testing.T) {
		current := []Record{rec("b", 0), rec("c", 1), rec("a", 2), rec("d")}

		got := restoreOrder(snapshot, current)

		assert.Equal(t, []string{"d", "a", "b", "c"}, ids(got))
	})

	t.Run("new records sort after positioned ones", func(t *testing.T) {
		positioned := []Record{rec("a", 0), rec("b", 1)}
		current := []Record{rec("d"), rec("b", 0), rec("a", 1)}

		got := restoreOrder(positioned, current)

		assert.Equal(t, []string{"a", "b", "d"}, ids(got))
	})
}
