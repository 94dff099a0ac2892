package products

import (
	"strconv"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/console"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
	"finitefield.org/catalog-admin/internal/admin/templates/partials"
)

const (
	// PanelID is the swap target holding the table and the pager.
	PanelID = "product-panel"
	// OverlayID is the swap target for the detail and form overlays.
	OverlayID = "overlay"

	emptyMessage = "No products found."
	tooltipLimit = 280
)

// Routes resolves the console endpoints under the admin base path.
type Routes struct {
	base string
}

// NewRoutes builds routes for the given admin base path.
func NewRoutes(basePath string) Routes {
	return Routes{base: helpers.JoinBase(basePath, "/products")}
}

func (r Routes) Page() string     { return r.base }
func (r Routes) Search() string   { return r.base + "/search" }
func (r Routes) PageSize() string { return r.base + "/page-size" }
func (r Routes) Prev() string     { return r.base + "/prev" }
func (r Routes) Next() string     { return r.base + "/next" }
func (r Routes) New() string      { return r.base + "/new" }
func (r Routes) Save() string     { return r.base + "/save" }
func (r Routes) Export() string   { return r.base + "/export.csv" }

func (r Routes) Sort(key catalog.SortKey) string { return r.base + "/sort/" + string(key) }
func (r Routes) Detail(id int) string            { return r.base + "/" + strconv.Itoa(id) }
func (r Routes) Edit(id int) string              { return r.base + "/" + strconv.Itoa(id) + "/edit" }

// PageData is the payload for the full console page.
type PageData struct {
	Title      string
	CSRFToken  string
	SearchTerm string
	PageSize   int
	PageSizes  []int
	Panel      PanelData
	Notices    []partials.Toast
	Routes     Routes
}

// PanelData is the payload for the table and pager fragment.
type PanelData struct {
	Rows         []RowData
	Error        string
	EmptyMessage string
	Headers      []HeaderData
	Page         int
	PageSize     int
	PrevDisabled bool
	NextDisabled bool
	PageInfo     string
	CSRFToken    string
	Routes       Routes
}

// HeaderData describes a table column header.
type HeaderData struct {
	Label     string
	SortURL   string
	Indicator string
}

// RowData is a single product row.
type RowData struct {
	ID        int
	Image     string
	Title     string
	Segments  []helpers.HighlightSegment
	Tooltip   string
	Price     string
	Category  string
	DetailURL string
	EditURL   string
}

// DetailData is the payload for the detail overlay.
type DetailData struct {
	ID          int
	Title       string
	Price       string
	Category    string
	Description string
	Image       string
	EditURL     string
}

// FormData is the payload for the create/edit overlay.
type FormData struct {
	Heading   string
	Editing   bool
	Input     console.FormInput
	SaveURL   string
	CSRFToken string
}

// BuildPageData composes the payload for full page rendering.
func BuildPageData(routes Routes, csrf string, snap console.Snapshot, panel PanelData, notices []console.Notice) PageData {
	return PageData{
		Title:      "Products | Catalog Admin",
		CSRFToken:  csrf,
		SearchTerm: snap.SearchTerm,
		PageSize:   snap.PageSize,
		PageSizes:  snap.PageSizes,
		Panel:      panel,
		Notices:    Toasts(notices),
		Routes:     routes,
	}
}

// PanelPayload prepares the panel from what the last command rendered, falling back to the state snapshot.
func PanelPayload(routes Routes, csrf string, snap console.Snapshot, frame *console.Frame) PanelData {
	products := snap.Products
	sort := catalog.SortState{}
	if snap.Sorted {
		sort = snap.Sort
	}
	errMsg := ""
	if frame != nil {
		if rendered, order, ok := frame.Table(); ok {
			products = rendered
			sort = order
		}
		errMsg = frame.Error()
	}

	pager := snap.Pagination
	if frame != nil {
		if p, ok := frame.Pagination(); ok {
			pager = p
		}
	}

	panel := PanelData{
		Error:        errMsg,
		Headers:      headers(routes, sort),
		Page:         snap.CurrentPage,
		PageSize:     snap.PageSize,
		PrevDisabled: snap.CurrentPage <= 1,
		NextDisabled: pager.NextDisabled,
		PageInfo:     helpers.PageInfo(snap.CurrentPage, snap.PageSize),
		CSRFToken:    csrf,
		Routes:       routes,
	}
	if errMsg == "" {
		panel.Rows = rows(routes, products, snap.SearchTerm)
		if len(panel.Rows) == 0 {
			panel.EmptyMessage = emptyMessage
		}
	}
	return panel
}

// DetailPayload prepares the detail overlay.
func DetailPayload(routes Routes, p catalog.Product) DetailData {
	image := p.CleanImage
	if image == "" {
		image = catalog.CleanImageURL(p.Images)
	}
	return DetailData{
		ID:          p.ID,
		Title:       p.Title,
		Price:       catalog.FormatPrice(p.Price),
		Category:    p.CategoryName(),
		Description: helpers.PlainText(p.Description),
		Image:       image,
		EditURL:     routes.Edit(p.ID),
	}
}

// FormPayload prepares the form overlay.
func FormPayload(routes Routes, state console.FormState, csrf string) FormData {
	heading := "Create product"
	if state.Mode == console.FormModeEdit {
		heading = "Update product"
	}
	return FormData{
		Heading:   heading,
		Editing:   state.Mode == console.FormModeEdit,
		Input:     state.Input,
		SaveURL:   routes.Save(),
		CSRFToken: csrf,
	}
}

// Toasts converts notices for rendering.
func Toasts(notices []console.Notice) []partials.Toast {
	out := make([]partials.Toast, 0, len(notices))
	for _, n := range notices {
		out = append(out, partials.Toast{Message: n.Message, Tone: string(n.Tone)})
	}
	return out
}

func headers(routes Routes, sort catalog.SortState) []HeaderData {
	return []HeaderData{
		{Label: "ID"},
		{Label: "Image"},
		{Label: "Title", SortURL: routes.Sort(catalog.SortByTitle), Indicator: sort.Indicator(catalog.SortByTitle)},
		{Label: "Price", SortURL: routes.Sort(catalog.SortByPrice), Indicator: sort.Indicator(catalog.SortByPrice)},
		{Label: "Category"},
		{Label: "Actions"},
	}
}

func rows(routes Routes, products []catalog.Product, term string) []RowData {
	out := make([]RowData, 0, len(products))
	for _, p := range products {
		image := p.CleanImage
		if image == "" {
			image = catalog.CleanImageURL(p.Images)
		}
		out = append(out, RowData{
			ID:        p.ID,
			Image:     image,
			Title:     p.Title,
			Segments:  helpers.HighlightSegments(p.Title, term),
			Tooltip:   helpers.Truncate(helpers.PlainText(p.Description), tooltipLimit),
			Price:     helpers.Price(p.Price),
			Category:  p.CategoryName(),
			DetailURL: routes.Detail(p.ID),
			EditURL:   routes.Edit(p.ID),
		})
	}
	return out
}
