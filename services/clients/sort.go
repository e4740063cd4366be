package clients

import "sort"

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortSalesHigh SortOrder = "sales-high"
	SortSalesLow  SortOrder = "sales-low"
)

// Valid reports whether o is a known order or empty.
func (o SortOrder) Valid() bool {
	switch o {
	case "", SortNewest, SortOldest, SortSalesHigh, SortSalesLow:
		return true
	}
	return false
}

// Sort returns a sorted copy of list. Ties keep their input order. Unknown orders sort
// newest first.
func Sort(list []Identity, order SortOrder) []Identity {
	out := make([]Identity, len(list))
	copy(out, list)

	var less func(a, b Identity) bool
	switch order {
	case SortOldest:
		less = func(a, b Identity) bool { return a.StartTime.Before(b.StartTime) }
	case SortSalesHigh:
		less = func(a, b Identity) bool { return a.TotalSales > b.TotalSales }
	case SortSalesLow:
		less = func(a, b Identity) bool { return a.TotalSales < b.TotalSales }
	default:
		less = func(a, b Identity) bool { return a.StartTime.After(b.StartTime) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
