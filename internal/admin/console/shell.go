package console

import (
	"context"
	"time"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

// Options configures a Shell.
type Options struct {
	PageSizes       []int
	DefaultPageSize int
	SearchDebounce  time.Duration
	// AfterFunc replaces the debounce clock, mainly for tests.
	AfterFunc AfterFunc
	Logger    *zap.Logger
}

// Shell owns one console's state and routes user commands to the controllers.
type Shell struct {
	state    *State
	list     *ListController
	detail   DetailView
	form     *FormController
	debounce *Debouncer
	logger   *zap.Logger
}

// NewShell builds a console over the catalog service.
func NewShell(service catalog.Service, opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	delay := opts.SearchDebounce
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	pageSize := opts.DefaultPageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	list := NewListController(service, logger)
	return &Shell{
		state:    NewState(opts.PageSizes, pageSize),
		list:     list,
		form:     NewFormController(service, list, logger),
		debounce: NewDebouncer(delay, opts.AfterFunc),
		logger:   logger,
	}
}

// Snapshot returns a copy of the console state for rendering.
func (s *Shell) Snapshot() Snapshot {
	return s.state.Snapshot()
}

// Load fetches the current page.
func (s *Shell) Load(ctx context.Context, view View) (bool, error) {
	return s.list.Refresh(ctx, s.state, view)
}

// SetSearchTerm records the term without fetching, e.g. before the first Load of a bookmarked search.
func (s *Shell) SetSearchTerm(term string) {
	s.state.mu.Lock()
	s.state.SearchTerm = term
	s.state.mu.Unlock()
}

// Search records the term and schedules a debounced refresh from the first page.
// The returned channel reports whether this trigger ran or was superseded.
func (s *Shell) Search(ctx context.Context, term string, view View) <-chan bool {
	s.state.mu.Lock()
	s.state.SearchTerm = term
	s.state.mu.Unlock()

	return s.debounce.Trigger(func() {
		if ctx.Err() != nil {
			return
		}
		s.state.mu.Lock()
		s.state.CurrentPage = 1
		s.state.mu.Unlock()

		_, _ = s.list.Refresh(ctx, s.state, view)
	})
}

// ChangePageSize switches the page size and returns to the first page.
func (s *Shell) ChangePageSize(ctx context.Context, size int, view View) (bool, error) {
	s.state.mu.Lock()
	if !containsInt(s.state.pageSizes, size) {
		s.state.mu.Unlock()
		return false, ErrInvalidPageSize
	}
	s.state.PageSize = size
	s.state.CurrentPage = 1
	s.state.mu.Unlock()

	return s.list.Refresh(ctx, s.state, view)
}

// NextPage advances one page unless the pager already shows the last one.
func (s *Shell) NextPage(ctx context.Context, view View) (bool, error) {
	s.state.mu.Lock()
	if s.state.pagination.NextDisabled {
		s.state.mu.Unlock()
		return false, nil
	}
	s.state.CurrentPage++
	s.state.mu.Unlock()

	return s.list.Refresh(ctx, s.state, view)
}

// PrevPage goes back one page. It does nothing on the first page.
func (s *Shell) PrevPage(ctx context.Context, view View) (bool, error) {
	s.state.mu.Lock()
	if s.state.CurrentPage <= 1 {
		s.state.mu.Unlock()
		return false, nil
	}
	s.state.CurrentPage--
	s.state.mu.Unlock()

	return s.list.Refresh(ctx, s.state, view)
}

// SortBy sorts the products already in memory. The order lasts until the next fetch.
func (s *Shell) SortBy(key catalog.SortKey, view View) {
	s.state.mu.Lock()
	s.state.Sort.Toggle(key)
	catalog.SortProducts(s.state.Products, s.state.Sort)
	s.state.Sorted = true
	products := append([]catalog.Product(nil), s.state.Products...)
	sort := s.state.Sort
	pagination := s.state.pagination
	s.state.mu.Unlock()

	view.RenderTable(products, sort)
	view.UpdatePagination(pagination)
}

// ShowDetail opens the detail overlay for an in-memory product.
func (s *Shell) ShowDetail(id int, view View) bool {
	return s.detail.Show(s.state, id, view)
}

// OpenCreate opens the form for a new product.
func (s *Shell) OpenCreate(view View) {
	s.form.OpenCreate(s.state, view)
}

// OpenEdit opens the form for an in-memory product.
func (s *Shell) OpenEdit(id int, view View) bool {
	return s.form.OpenEdit(s.state, id, view)
}

// Save submits the form input.
func (s *Shell) Save(ctx context.Context, input FormInput, view View) error {
	return s.form.Save(ctx, s.state, input, view)
}

// Export renders the products currently in memory, in display order, as CSV.
func (s *Shell) Export() []byte {
	s.state.mu.Lock()
	products := append([]catalog.Product(nil), s.state.Products...)
	s.state.mu.Unlock()

	return catalog.ExportCSV(products)
}

// Close cancels any pending debounced search.
func (s *Shell) Close() {
	s.debounce.Stop()
}
