package partials

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

// Topbar renders the console header with the environment badge.
func Topbar(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		env := middleware.EnvironmentFromContext(ctx)

		m := helpers.NewMarkup(ctx, w)
		m.Raw(`<header class="topbar" data-topbar>`)
		m.Raw(`<a class="topbar__title"`)
		m.Attr("href", helpers.Route(ctx, "/products"))
		m.Raw(`>`)
		m.Text(title)
		m.Raw(`</a>`)
		m.Raw(`<span data-environment-badge`)
		m.Attr("class", EnvironmentBadgeClass(env))
		m.Attr("title", env)
		m.Raw(`><span aria-hidden="true">`)
		m.Text(EnvironmentLabel(env))
		m.Raw(`</span><span class="sr-only">`)
		m.Text(env)
		m.Raw(`</span></span>`)
		m.Raw(`<span class="topbar__spinner htmx-indicator" id="loading" role="status" data-loading-indicator>Loading...</span>`)
		m.Raw(`</header>`)
		return m.Err()
	})
}

// EnvironmentLabel abbreviates the environment for the badge.
func EnvironmentLabel(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return "PRD"
	case "staging", "stg":
		return "STG"
	case "development", "dev", "":
		return "DEV"
	default:
		label := strings.ToUpper(strings.TrimSpace(env))
		if len(label) > 3 {
			label = label[:3]
		}
		return label
	}
}

// EnvironmentBadgeClass picks the badge tone for the environment.
func EnvironmentBadgeClass(env string) string {
	switch EnvironmentLabel(env) {
	case "PRD":
		return helpers.BadgeClass("danger")
	case "STG":
		return helpers.BadgeClass("warning")
	default:
		return helpers.BadgeClass("neutral")
	}
}
