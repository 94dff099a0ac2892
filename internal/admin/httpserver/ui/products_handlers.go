package ui

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/console"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/observability"
	producttpl "finitefield.org/catalog-admin/internal/admin/templates/products"
)

// ToastEvent is the client event raised with every notice.
const ToastEvent = "toast"

type toastDetail struct {
	Message string `json:"message"`
	Tone    string `json:"tone"`
}

// ProductsPage renders the console. A full page load always starts from a fresh console state.
func (h *Handlers) ProductsPage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	shell := h.consoles.Reset(id)
	if term := strings.TrimSpace(r.URL.Query().Get("q")); term != "" {
		shell.SetSearchTerm(term)
	}

	frame := console.NewFrame()
	_, _ = shell.Load(r.Context(), frame)
	h.renderPage(w, r, shell, frame)
}

// ProductsSearch applies the debounced title filter. Requests superseded by a newer keystroke get 204.
func (h *Handlers) ProductsSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}

	term := r.URL.Query().Get("q")
	frame := console.NewFrame()
	done := shell.Search(ctx, term, frame)

	select {
	case ran := <-done:
		if ran && custommw.IsHTMXRequest(ctx) {
			custommw.PushURL(w, searchPageURL(routesFor(r), term))
		}
	case <-ctx.Done():
		observability.FromContext(ctx).Debug("search request cancelled", zap.String("term", term))
		return
	}

	h.respondList(w, r, shell, frame)
}

// ProductsPageSize changes the page size and reloads the first page.
func (h *Handlers) ProductsPageSize(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}

	size, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("size")))
	if err != nil {
		http.Error(w, "invalid page size", http.StatusBadRequest)
		return
	}

	frame := console.NewFrame()
	if _, err := shell.ChangePageSize(r.Context(), size, frame); errors.Is(err, console.ErrInvalidPageSize) {
		http.Error(w, "invalid page size", http.StatusBadRequest)
		return
	}
	h.respondList(w, r, shell, frame)
}

// ProductsPrev moves one page back.
func (h *Handlers) ProductsPrev(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	frame := console.NewFrame()
	_, _ = shell.PrevPage(r.Context(), frame)
	h.respondList(w, r, shell, frame)
}

// ProductsNext moves one page forward.
func (h *Handlers) ProductsNext(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	frame := console.NewFrame()
	_, _ = shell.NextPage(r.Context(), frame)
	h.respondList(w, r, shell, frame)
}

// ProductsSort reorders the products already loaded.
func (h *Handlers) ProductsSort(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	key, valid := catalog.ParseSortKey(chi.URLParam(r, "key"))
	if !valid {
		http.NotFound(w, r)
		return
	}
	frame := console.NewFrame()
	shell.SortBy(key, frame)
	h.respondList(w, r, shell, frame)
}

// ProductDetail renders the detail overlay for a product on the current page.
func (h *Handlers) ProductDetail(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	frame := console.NewFrame()
	if !shell.ShowDetail(id, frame) {
		http.NotFound(w, r)
		return
	}
	product, _ := frame.Detail()
	templ.Handler(producttpl.Detail(producttpl.DetailPayload(routesFor(r), product))).ServeHTTP(w, r)
}

// ProductNew renders the create form, restoring an unsaved draft when present.
func (h *Handlers) ProductNew(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	frame := console.NewFrame()
	shell.OpenCreate(frame)
	h.renderForm(w, r, frame)
}

// ProductEdit renders the edit form for a product on the current page.
func (h *Handlers) ProductEdit(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	frame := console.NewFrame()
	if !shell.OpenEdit(id, frame) {
		http.NotFound(w, r)
		return
	}
	h.renderForm(w, r, frame)
}

// ProductSave submits the form. The outcome is announced through a toast event.
func (h *Handlers) ProductSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	input := console.FormInput{
		ID:          strings.TrimSpace(r.PostFormValue("id")),
		Title:       r.PostFormValue("title"),
		Price:       r.PostFormValue("price"),
		Description: r.PostFormValue("description"),
		CategoryID:  r.PostFormValue("categoryId"),
		Image:       r.PostFormValue("image"),
	}

	frame := console.NewFrame()
	_ = shell.Save(ctx, input, frame)

	if notices := frame.Notices(); len(notices) > 0 && custommw.IsHTMXRequest(ctx) {
		last := notices[len(notices)-1]
		if err := custommw.TriggerEvent(w, ToastEvent, toastDetail{Message: last.Message, Tone: string(last.Tone)}); err != nil {
			observability.FromContext(ctx).Warn("toast trigger failed", zap.Error(err))
		}
	}
	h.respondList(w, r, shell, frame)
}

// ProductsExport downloads the products currently in memory as CSV.
func (h *Handlers) ProductsExport(w http.ResponseWriter, r *http.Request) {
	shell, ok := h.shell(w, r)
	if !ok {
		return
	}
	body := shell.Export()

	w.Header().Set("Content-Type", catalog.ExportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+catalog.ExportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		observability.FromContext(r.Context()).Warn("export write failed", zap.Error(err))
	}
}

// respondList answers a list command. htmx callers get the panel fragment, or 204 when the command
// rendered nothing (a no-op or a superseded fetch); other callers get the full page.
func (h *Handlers) respondList(w http.ResponseWriter, r *http.Request, shell *console.Shell, frame *console.Frame) {
	if !custommw.IsHTMXRequest(r.Context()) {
		h.renderPage(w, r, shell, frame)
		return
	}
	if _, _, rendered := frame.Table(); !rendered {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	routes := routesFor(r)
	csrf := custommw.CSRFTokenFromContext(r.Context())
	panel := producttpl.PanelPayload(routes, csrf, shell.Snapshot(), frame)
	templ.Handler(producttpl.Panel(panel)).ServeHTTP(w, r)
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, shell *console.Shell, frame *console.Frame) {
	routes := routesFor(r)
	csrf := custommw.CSRFTokenFromContext(r.Context())
	snap := shell.Snapshot()

	panel := producttpl.PanelPayload(routes, csrf, snap, frame)
	page := producttpl.BuildPageData(routes, csrf, snap, panel, frame.Notices())
	templ.Handler(producttpl.Index(page)).ServeHTTP(w, r)
}

func (h *Handlers) renderForm(w http.ResponseWriter, r *http.Request, frame *console.Frame) {
	state, ok := frame.Form()
	if !ok {
		http.NotFound(w, r)
		return
	}
	payload := producttpl.FormPayload(routesFor(r), state, custommw.CSRFTokenFromContext(r.Context()))
	templ.Handler(producttpl.Form(payload)).ServeHTTP(w, r)
}

func routesFor(r *http.Request) producttpl.Routes {
	return producttpl.NewRoutes(custommw.BasePathFromContext(r.Context()))
}

func searchPageURL(routes producttpl.Routes, term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return routes.Page()
	}
	return routes.Page() + "?" + url.Values{"q": {term}}.Encode()
}
