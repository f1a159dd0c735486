package client

import "slices"

// SortByPosition orders records by OrderPosition ascending. Records without a
// position go last. The sort is stable, so ties and the unpositioned tail keep
// the order they arrived in.
func SortByPosition(records []Record) {
	slices.SortStableFunc(records, comparePosition)
}

func comparePosition(a, b Record) int {
	switch {
	case a.OrderPosition == nil && b.OrderPosition == nil:
		return 0
	case a.OrderPosition == nil:
		return 1
	case b.OrderPosition == nil:
		return -1
	default:
		return *a.OrderPosition - *b.OrderPosition
	}
}

// moveItem returns a copy of items with the element at from moved to to,
// shifting everything in between by one.
func moveItem[T any](items []T, from, to int) []T {
	out := slices.Clone(items)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

// reorderWithin moves view[from] to position to among the displayed records.
// The displayed records keep the slots they occupy in full, so records hidden
// by the filter never move.
func reorderWithin(full, view []Record, from, to int) []Record {
	slots := make([]int, 0, len(view))
	index := make(map[string]int, len(full))
	for i, r := range full {
		index[r.ID] = i
	}
	for _, r := range view {
		slots = append(slots, index[r.ID])
	}

	moved := moveItem(view, from, to)
	out := slices.Clone(full)
	for k, slot := range slots {
		out[slot] = moved[k]
	}
	return out
}

// withSequentialPositions returns a copy of records whose positions are their
// zero-based index.
func withSequentialPositions(records []Record) []Record {
	out := slices.Clone(records)
	for i := range out {
		pos := i
		out[i].OrderPosition = &pos
	}
	return out
}

// restoreOrder puts current back into the order recorded in snapshot.
// Record values come from current: ids missing from current are dropped and
// records absent from snapshot are placed the way Create places them.
func restoreOrder(snapshot, current []Record) []Record {
	live := make(map[string]Record, len(current))
	for _, r := range current {
		live[r.ID] = r
	}

	restored := make([]Record, 0, len(current))
	for _, old := range snapshot {
		r, ok := live[old.ID]
		if !ok {
			continue
		}
		r.OrderPosition = old.OrderPosition
		restored = append(restored, r)
		delete(live, old.ID)
	}

	out := make([]Record, 0, len(current))
	for _, r := range current {
		if _, added := live[r.ID]; added {
			out = append(out, r)
		}
	}
	out = append(out, restored...)
	SortByPosition(out)
	return out
}

// SortNewestFirst orders records by CreatedAt descending, the order stores
// return from List. Equal timestamps keep their relative order.
func SortNewestFirst(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
