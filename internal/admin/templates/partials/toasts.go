package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

// ToastRegionID is the container the client script appends toasts to.
const ToastRegionID = "toasts"

// Toast is one rendered notice.
type Toast struct {
	Message string
	Tone    string
}

// Toasts renders the toast region. Server-side toasts are only present on full page renders.
func Toasts(items []Toast) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<div class="toast-region" aria-live="polite" data-toast-region`)
		m.Attr("id", ToastRegionID)
		m.Raw(`>`)
		for _, item := range items {
			m.Raw(`<div role="status" data-toast`)
			m.Attr("class", helpers.ToastClass(item.Tone))
			m.Attr("data-tone", item.Tone)
			m.Raw(`>`)
			m.Text(item.Message)
			m.Raw(`</div>`)
		}
		m.Raw(`</div>`)
		return m.Err()
	})
}
