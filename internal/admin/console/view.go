package console

import (
	"sync"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

// View receives rendering instructions from the controllers.
type View interface {
	SetLoading(on bool)
	RenderTable(products []catalog.Product, sort catalog.SortState)
	RenderError(message string)
	UpdatePagination(p Pagination)
	ShowDetail(p catalog.Product)
	OpenForm(f FormState)
	CloseForm()
	Notify(n Notice)
}

// Pagination describes the pager controls after a fetch.
type Pagination struct {
	Page         int
	PageSize     int
	Count        int
	Total        *int
	PrevDisabled bool
	NextDisabled bool
}

// FormMode distinguishes the create and edit overlays.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// FormState is the content of the create/edit overlay.
type FormState struct {
	Mode  FormMode
	Input FormInput
}

// Tone classifies a notice for display.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
	ToneInfo    Tone = "info"
)

// Notice is a user-visible message raised by a command.
type Notice struct {
	Message string
	Tone    Tone
}

// Frame is a View that records what a command asked to render.
type Frame struct {
	mu sync.Mutex

	loadingDepth  int
	loadingEvents int

	tableRendered bool
	rows          []catalog.Product
	sort          catalog.SortState
	errMessage    string
	pagination    *Pagination
	detail        *catalog.Product
	form          *FormState
	formClosed    bool
	notices       []Notice
}

// NewFrame returns an empty Frame.
func NewFrame() *Frame {
	return &Frame{}
}

// SetLoading only records the indicator depth. HTTP responses ignore it; the browser shows
// #loading itself through hx-indicator while a request is in flight.
func (f *Frame) SetLoading(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadingEvents++
	if on {
		f.loadingDepth++
		return
	}
	if f.loadingDepth > 0 {
		f.loadingDepth--
	}
}

func (f *Frame) RenderTable(products []catalog.Product, sort catalog.SortState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tableRendered = true
	f.rows = append([]catalog.Product(nil), products...)
	f.sort = sort
	f.errMessage = ""
}

func (f *Frame) RenderError(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tableRendered = true
	f.rows = nil
	f.errMessage = message
}

func (f *Frame) UpdatePagination(p Pagination) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pagination = &p
}

func (f *Frame) ShowDetail(p catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detail = &p
}

func (f *Frame) OpenForm(state FormState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.form = &state
	f.formClosed = false
}

func (f *Frame) CloseForm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formClosed = true
}

func (f *Frame) Notify(n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
}

// Loading reports whether the loading indicator is still shown.
func (f *Frame) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadingDepth > 0
}

// LoadingToggled reports whether the loading indicator was shown at any point.
func (f *Frame) LoadingToggled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadingEvents > 0
}

// Table returns the rendered rows, the sort indicator and whether a table was rendered at all.
func (f *Frame) Table() ([]catalog.Product, catalog.SortState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Product(nil), f.rows...), f.sort, f.tableRendered
}

// Error returns the inline table error, if any.
func (f *Frame) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMessage
}

// Pagination returns the last pager update.
func (f *Frame) Pagination() (Pagination, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pagination == nil {
		return Pagination{}, false
	}
	return *f.pagination, true
}

// Detail returns the product shown in the detail overlay.
func (f *Frame) Detail() (catalog.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detail == nil {
		return catalog.Product{}, false
	}
	return *f.detail, true
}

// Form returns the opened form overlay.
func (f *Frame) Form() (FormState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.form == nil {
		return FormState{}, false
	}
	return *f.form, true
}

// FormClosed reports whether the form overlay was closed.
func (f *Frame) FormClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.formClosed
}

// Notices returns the raised notices in order.
func (f *Frame) Notices() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notice(nil), f.notices...)
}
