package catalog

import (
	"sort"
	"strings"
)

// SortKey names a product field the console can sort by locally.
type SortKey string

const (
	SortByID    SortKey = "id"
	SortByTitle SortKey = "title"
	SortByPrice SortKey = "price"
)

// ParseSortKey normalises a raw key, reporting whether it is supported.
func ParseSortKey(raw string) (SortKey, bool) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case SortByID, SortByTitle, SortByPrice:
		return key, true
	default:
		return "", false
	}
}

// SortState remembers the last sort key and its direction. The zero value means server order.
type SortState struct {
	Key       SortKey
	Ascending bool
}

// Active reports whether a local sort has been applied.
func (s SortState) Active() bool {
	return s.Key != ""
}

// Toggle flips the direction when key repeats the last sort, otherwise starts ascending.
func (s *SortState) Toggle(key SortKey) {
	if s.Key == key {
		s.Ascending = !s.Ascending
	} else {
		s.Ascending = true
	}
	s.Key = key
}

// Indicator returns the arrow shown next to a column header.
func (s SortState) Indicator(key SortKey) string {
	if s.Key != key {
		return ""
	}
	if s.Ascending {
		return "▲"
	}
	return "▼"
}

// SortProducts reorders products in place by the state's key using native ordering.
func SortProducts(products []Product, state SortState) {
	if !state.Active() {
		return
	}
	less := lessFunc(state.Key)
	if less == nil {
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		if state.Ascending {
			return less(products[i], products[j])
		}
		return less(products[j], products[i])
	})
}

func lessFunc(key SortKey) func(a, b Product) bool {
	switch key {
	case SortByID:
		return func(a, b Product) bool { return a.ID < b.ID }
	case SortByTitle:
		return func(a, b Product) bool { return a.Title < b.Title }
	case SortByPrice:
		return func(a, b Product) bool { return a.Price < b.Price }
	default:
		return nil
	}
}
