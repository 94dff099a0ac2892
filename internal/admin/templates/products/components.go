package products

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
	"finitefield.org/catalog-admin/internal/admin/templates/partials"
)

const (
	htmxScript    = "https://unpkg.com/htmx.org@2.0.3"
	stylesheet    = "/public/static/admin.css"
	clientScript  = "/public/static/admin.js"
	csrfField     = "_csrf"
	panelTarget   = "#" + PanelID
	overlayTarget = "#" + OverlayID

	// Row buttons open their own overlay; the row itself opens the detail.
	stopRowClick = "event.stopPropagation()"
)

// Index renders the full console page.
func Index(page PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		headers, err := json.Marshal(map[string]string{"X-CSRF-Token": page.CSRFToken})
		if err != nil {
			return err
		}

		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.Raw(`<title>`)
		m.Text(page.Title)
		m.Raw(`</title><link rel="stylesheet"`)
		m.Attr("href", stylesheet)
		m.Raw(`><script defer`)
		m.Attr("src", htmxScript)
		m.Raw(`></script><script defer`)
		m.Attr("src", clientScript)
		m.Raw(`></script></head>`)
		m.Raw(`<body`)
		m.Attr("hx-headers", string(headers))
		m.Raw(`>`)
		m.Component(partials.Topbar("Catalog Admin"))
		m.Raw(`<main class="console" data-console>`)
		m.Component(toolbar(page))
		m.Component(Panel(page.Panel))
		m.Raw(`</main>`)
		m.Raw(`<div class="overlay-root" data-overlay-root`)
		m.Attr("id", OverlayID)
		m.Raw(`></div>`)
		m.Component(partials.Toasts(page.Notices))
		m.Raw(`</body></html>`)
		return m.Err()
	})
}

func toolbar(page PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<section class="toolbar" data-toolbar>`)

		m.Raw(`<form class="toolbar__search" method="get" role="search"`)
		m.Attr("action", page.Routes.Search())
		m.Raw(`><label class="sr-only" for="product-search">Search by title</label>`)
		m.Raw(`<input id="product-search" type="search" name="q" placeholder="Search by title" autocomplete="off" data-search-input`)
		m.Attr("value", page.SearchTerm)
		m.Attr("hx-get", page.Routes.Search())
		m.Attr("hx-trigger", "input changed, search")
		m.Attr("hx-target", panelTarget)
		m.Attr("hx-swap", "outerHTML")
		m.Attr("hx-sync", "this:replace")
		m.Attr("hx-indicator", "#loading")
		m.Raw(`></form>`)

		m.Raw(`<form class="toolbar__page-size" method="post"`)
		m.Attr("action", page.Routes.PageSize())
		m.Raw(`>`)
		csrfInput(m, page.CSRFToken)
		m.Raw(`<label for="page-size">Page size</label><select id="page-size" name="size" data-page-size`)
		m.Attr("hx-post", page.Routes.PageSize())
		m.Attr("hx-trigger", "change")
		m.Attr("hx-target", panelTarget)
		m.Attr("hx-swap", "outerHTML")
		m.Attr("hx-indicator", "#loading")
		m.Raw(`>`)
		for _, size := range page.PageSizes {
			value := strconv.Itoa(size)
			m.Raw(`<option`)
			m.Attr("value", value)
			m.BoolAttr("selected", size == page.PageSize)
			m.Raw(`>`)
			m.Text(value)
			m.Raw(`</option>`)
		}
		m.Raw(`</select><noscript><button type="submit">Apply</button></noscript></form>`)

		m.Raw(`<div class="toolbar__actions">`)
		m.Raw(`<button type="button" class="btn btn--primary" data-create-product`)
		m.Attr("hx-get", page.Routes.New())
		m.Attr("hx-target", overlayTarget)
		m.Raw(`>Add product</button>`)
		m.Raw(`<a class="btn" download data-export`)
		m.Attr("href", page.Routes.Export())
		m.Raw(`>Export CSV</a>`)
		m.Raw(`</div></section>`)
		return m.Err()
	})
}

// Panel renders the product table and the pager. It is the swap target of list commands.
func Panel(panel PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<div class="panel" data-product-panel`)
		m.Attr("id", PanelID)
		m.Raw(`>`)
		m.Component(table(panel))
		m.Component(pager(panel))
		m.Raw(`</div>`)
		return m.Err()
	})
}

func table(panel PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<table class="table" data-product-table><thead><tr>`)
		for _, h := range panel.Headers {
			m.Raw(`<th scope="col">`)
			if h.SortURL == "" {
				m.Text(h.Label)
				m.Raw(`</th>`)
				continue
			}
			m.Raw(`<button type="button" class="table__sort" data-sort`)
			m.Attr("hx-post", h.SortURL)
			m.Attr("hx-target", panelTarget)
			m.Attr("hx-swap", "outerHTML")
			m.Raw(`>`)
			m.Text(h.Label)
			if h.Indicator != "" {
				m.Raw(` <span class="table__sort-indicator" data-sort-indicator>`)
				m.Text(h.Indicator)
				m.Raw(`</span>`)
			}
			m.Raw(`</button></th>`)
		}
		m.Raw(`</tr></thead><tbody>`)

		colspan := strconv.Itoa(len(panel.Headers))
		switch {
		case panel.Error != "":
			m.Raw(`<tr><td class="table__error text-danger" role="alert" data-table-error`)
			m.Attr("colspan", colspan)
			m.Raw(`>`)
			m.Text(panel.Error)
			m.Raw(`</td></tr>`)
		case len(panel.Rows) == 0:
			m.Raw(`<tr><td class="table__empty" data-table-empty`)
			m.Attr("colspan", colspan)
			m.Raw(`>`)
			m.Text(panel.EmptyMessage)
			m.Raw(`</td></tr>`)
		default:
			for _, row := range panel.Rows {
				m.Component(tableRow(row))
			}
		}
		m.Raw(`</tbody></table>`)
		return m.Err()
	})
}

func tableRow(row RowData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := strconv.Itoa(row.ID)
		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<tr class="table__row--link" data-product-row`)
		m.Attr("data-product-id", id)
		m.Attr("hx-get", row.DetailURL)
		m.Attr("hx-target", overlayTarget)
		m.Raw(`><td>`)
		m.Text(id)
		m.Raw(`</td><td><img class="table__thumb" width="48" height="48" loading="lazy"`)
		m.Attr("src", row.Image)
		m.Attr("alt", row.Title)
		m.Attr("onerror", "this.onerror=null;this.src='"+catalog.PlaceholderImage+"'")
		m.Raw(`></td><td class="table__title" data-product-title`)
		if row.Tooltip != "" {
			m.Attr("title", row.Tooltip)
		}
		m.Raw(`>`)
		for _, seg := range row.Segments {
			if seg.Match {
				m.Raw(`<mark>`)
				m.Text(seg.Text)
				m.Raw(`</mark>`)
				continue
			}
			m.Text(seg.Text)
		}
		m.Raw(`</td><td data-product-price>`)
		m.Text(row.Price)
		m.Raw(`</td><td><span data-product-category`)
		m.Attr("class", helpers.BadgeClass("neutral"))
		m.Raw(`>`)
		m.Text(row.Category)
		m.Raw(`</span></td><td class="table__actions">`)
		m.Raw(`<button type="button" class="btn btn--small" data-product-view`)
		m.Attr("hx-get", row.DetailURL)
		m.Attr("hx-target", overlayTarget)
		m.Attr("hx-on:click", stopRowClick)
		m.Raw(`>View</button>`)
		m.Raw(`<button type="button" class="btn btn--small" data-product-edit`)
		m.Attr("hx-get", row.EditURL)
		m.Attr("hx-target", overlayTarget)
		m.Attr("hx-on:click", stopRowClick)
		m.Raw(`>Edit</button>`)
		m.Raw(`</td></tr>`)
		return m.Err()
	})
}

func pager(panel PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<nav class="pager" aria-label="Pagination" data-pagination>`)
		pagerButton(m, panel, panel.Routes.Prev(), "Previous", "data-page-prev", panel.PrevDisabled)
		m.Raw(`<span class="pager__current" data-current-page>`)
		m.Text(strconv.Itoa(panel.Page))
		m.Raw(`</span>`)
		pagerButton(m, panel, panel.Routes.Next(), "Next", "data-page-next", panel.NextDisabled)
		m.Raw(`<p class="pager__info" data-page-info>`)
		m.Text(panel.PageInfo)
		m.Raw(`</p></nav>`)
		return m.Err()
	})
}

func pagerButton(m *helpers.Markup, panel PanelData, action, label, hook string, disabled bool) {
	m.Raw(`<form method="post" class="pager__form"`)
	m.Attr("action", action)
	m.Raw(`>`)
	csrfInput(m, panel.CSRFToken)
	m.Raw(`<button type="submit" class="btn"`)
	m.BoolAttr(hook, true)
	m.Attr("hx-post", action)
	m.Attr("hx-target", panelTarget)
	m.Attr("hx-swap", "outerHTML")
	m.Attr("hx-indicator", "#loading")
	m.BoolAttr("disabled", disabled)
	m.Raw(`>`)
	m.Text(label)
	m.Raw(`</button></form>`)
}

// Detail renders the read-only product overlay.
func Detail(d DetailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<div class="overlay" role="dialog" aria-modal="true" aria-labelledby="detail-title" data-overlay data-product-detail>`)
		m.Raw(`<div class="overlay__card">`)
		m.Raw(`<h2 id="detail-title">`)
		m.Text(d.Title)
		m.Raw(`</h2><img class="overlay__image"`)
		m.Attr("src", d.Image)
		m.Attr("alt", d.Title)
		m.Raw(`><dl class="overlay__fields">`)
		field(m, "ID", strconv.Itoa(d.ID), "data-detail-id")
		field(m, "Price", d.Price, "data-detail-price")
		field(m, "Category", d.Category, "data-detail-category")
		field(m, "Description", d.Description, "data-detail-description")
		m.Raw(`</dl><div class="overlay__actions">`)
		m.Raw(`<button type="button" class="btn btn--primary" data-detail-edit`)
		m.Attr("hx-get", d.EditURL)
		m.Attr("hx-target", overlayTarget)
		m.Raw(`>Edit</button>`)
		m.Raw(`<button type="button" class="btn" data-overlay-close>Close</button>`)
		m.Raw(`</div></div></div>`)
		return m.Err()
	})
}

func field(m *helpers.Markup, label, value, hook string) {
	m.Raw(`<dt>`)
	m.Text(label)
	m.Raw(`</dt><dd`)
	m.BoolAttr(hook, true)
	m.Raw(`>`)
	m.Text(value)
	m.Raw(`</dd>`)
}

// Form renders the create/edit overlay. The overlay hides itself as soon as the save request starts.
func Form(f FormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<div class="overlay" role="dialog" aria-modal="true" aria-labelledby="form-title" data-overlay data-product-form`)
		if f.Editing {
			m.Attr("data-mode", "edit")
		} else {
			m.Attr("data-mode", "create")
		}
		m.Raw(`><div class="overlay__card"><h2 id="form-title">`)
		m.Text(f.Heading)
		m.Raw(`</h2><form method="post" class="form"`)
		m.Attr("action", f.SaveURL)
		m.Attr("hx-post", f.SaveURL)
		m.Attr("hx-target", panelTarget)
		m.Attr("hx-swap", "outerHTML")
		m.Attr("hx-indicator", "#loading")
		m.Attr("hx-on::before-request", "this.closest('[data-overlay]').hidden = true")
		m.Raw(`>`)
		csrfInput(m, f.CSRFToken)
		m.Raw(`<input type="hidden" name="id"`)
		m.Attr("value", f.Input.ID)
		m.Raw(`>`)
		input(m, "title", "Title", "text", f.Input.Title)
		input(m, "price", "Price", "decimal", f.Input.Price)
		m.Raw(`<label class="form__field"><span>Description</span><textarea name="description" rows="4">`)
		m.Text(f.Input.Description)
		m.Raw(`</textarea></label>`)
		input(m, "categoryId", "Category ID", "numeric", f.Input.CategoryID)
		input(m, "image", "Image URL", "url", f.Input.Image)
		m.Raw(`<div class="overlay__actions"><button type="submit" class="btn btn--primary" data-form-submit>Save</button>`)
		m.Raw(`<button type="button" class="btn" data-overlay-close>Cancel</button></div>`)
		m.Raw(`</form></div></div>`)
		return m.Err()
	})
}

// input renders a text field. Typed inputs would drop unparsable draft values, so inputmode hints the keyboard instead.
func input(m *helpers.Markup, name, label, mode, value string) {
	m.Raw(`<label class="form__field"><span>`)
	m.Text(label)
	m.Raw(`</span><input type="text"`)
	m.Attr("name", name)
	m.Attr("value", value)
	m.Attr("inputmode", mode)
	m.Raw(`></label>`)
}

func csrfInput(m *helpers.Markup, token string) {
	if token == "" {
		return
	}
	m.Raw(`<input type="hidden"`)
	m.Attr("name", csrfField)
	m.Attr("value", token)
	m.Raw(`>`)
}
