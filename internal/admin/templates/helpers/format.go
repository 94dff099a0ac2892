package helpers

import (
	"fmt"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

// Price renders a price the way the table shows it, e.g. "$12.5".
func Price(price float64) string {
	return "$" + catalog.FormatPrice(price)
}

// PageInfo renders the line under the pager.
func PageInfo(page, pageSize int) string {
	return fmt.Sprintf("Page %d - showing up to %d products", page, pageSize)
}

// BadgeClass maps semantic tones to utility classes.
func BadgeClass(tone string) string {
	switch tone {
	case "success":
		return "badge badge--success"
	case "warning":
		return "badge badge--warning"
	case "danger":
		return "badge badge--danger"
	default:
		return "badge badge--neutral"
	}
}

// ToastClass maps a notice tone to the toast container classes.
func ToastClass(tone string) string {
	switch tone {
	case "success":
		return "toast toast--success"
	case "danger":
		return "toast toast--danger"
	default:
		return "toast toast--info"
	}
}
