package catalog

import (
	"cmp"
	"slices"
)

// sortRecords orders by CreatedAt, then run, then test index. Records of one
// run share the run's start time, so each run stays contiguous.
func sortRecords(recs []Record) {
	slices.SortFunc(recs, func(a, b Record) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if c := cmp.Compare(a.RunID.String(), b.RunID.String()); c != 0 {
			return c
		}
		return cmp.Compare(a.Test, b.Test)
	})
}
