package pagination

import "sort"

// Page slices one 1-based page out of items. Callers pass the full
// candidate set sorted by id ascending (see SortByID); the result is
// items[offset : offset+pageSize] with offset = pageSize * (pageID-1),
// empty when the offset runs past the end or the arguments are not
// positive. The input is assumed to contain no duplicate identifiers.
func Page[T any](items []T, pageSize, pageID int) []T {
	if pageSize <= 0 || pageID < 1 {
		return []T{}
	}
	offset := pageSize * (pageID - 1)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}

// SortByID orders items by identifier ascending in place. Stores already
// hand back id-ordered sets; this is for candidate sets assembled from
// multiple scans (e.g. accounts collected via access rules).
func SortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool {
		return id(items[i]) < id(items[j])
	})
}
