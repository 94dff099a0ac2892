package console

import (
	"errors"
	"sync"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

// DefaultPageSizes enumerates the page sizes offered by the page-size selector.
var DefaultPageSizes = []int{5, 10, 20, 50}

// DefaultPageSize is the page size used on first load.
const DefaultPageSize = 10

// ErrInvalidPageSize is returned when a page size outside the configured choices is requested.
var ErrInvalidPageSize = errors.New("console: invalid page size")

// State is the per-console session state. It is owned by a Shell and handed to controllers by pointer.
type State struct {
	mu sync.Mutex

	CurrentPage int
	PageSize    int
	SearchTerm  string
	Products    []catalog.Product
	Total       *int
	Sort        catalog.SortState
	// Sorted is true while Products reflects a local sort rather than server order.
	Sorted bool
	// Draft holds the input of the last failed save so the form can be reopened without re-entry.
	Draft *FormInput

	pageSizes  []int
	token      uint64
	pagination Pagination
}

// NewState returns a state positioned on the first page.
func NewState(pageSizes []int, pageSize int) *State {
	if len(pageSizes) == 0 {
		pageSizes = DefaultPageSizes
	}
	if !containsInt(pageSizes, pageSize) {
		pageSize = pageSizes[0]
		if containsInt(pageSizes, DefaultPageSize) {
			pageSize = DefaultPageSize
		}
	}
	return &State{
		CurrentPage: 1,
		PageSize:    pageSize,
		pageSizes:   append([]int(nil), pageSizes...),
		pagination: Pagination{
			Page:         1,
			PageSize:     pageSize,
			PrevDisabled: true,
		},
	}
}

// Snapshot is a consistent copy of the state used for rendering.
type Snapshot struct {
	CurrentPage int
	PageSize    int
	PageSizes   []int
	SearchTerm  string
	Products    []catalog.Product
	Sort        catalog.SortState
	Sorted      bool
	Pagination  Pagination
	HasDraft    bool
}

// Snapshot copies the state under lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		CurrentPage: s.CurrentPage,
		PageSize:    s.PageSize,
		PageSizes:   append([]int(nil), s.pageSizes...),
		SearchTerm:  s.SearchTerm,
		Products:    append([]catalog.Product(nil), s.Products...),
		Sort:        s.Sort,
		Sorted:      s.Sorted,
		Pagination:  s.pagination,
		HasDraft:    s.Draft != nil,
	}
}

// product returns a copy of the in-memory product with the given id. Callers must hold mu.
func (s *State) product(id int) (catalog.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (s *State) visibleSort() catalog.SortState {
	if !s.Sorted {
		return catalog.SortState{}
	}
	return s.Sort
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
