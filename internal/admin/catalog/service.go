package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// PlaceholderImage is rendered whenever a product carries no usable image reference.
const PlaceholderImage = "https://placehold.co/100"

var (
	// ErrNetwork is returned when listing products fails at the transport or with a non-success status.
	ErrNetwork = errors.New("catalog: network error")
	// ErrSave is returned when a create or update call fails.
	ErrSave = errors.New("catalog: save failed")
)

// Service exposes the remote catalog operations used by the console.
type Service interface {
	// Search returns one server-side page of products matching the query.
	Search(ctx context.Context, query Query) (SearchResult, error)
	// Create submits a new product.
	Create(ctx context.Context, payload Payload) error
	// Update replaces the editable fields of an existing product.
	Update(ctx context.Context, id int, payload Payload) error
}

// Query describes a paginated product listing request.
type Query struct {
	Title  string
	Offset int
	Limit  int
}

// SearchResult holds one page of products in server order.
type SearchResult struct {
	Products []Product
	// Total is only set when the remote service reports a total count.
	Total *int
}

// Product mirrors the remote product resource.
type Product struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Category    *Category `json:"category,omitempty"`
	Images      []string  `json:"images"`

	// CleanImage is derived locally from Images on every fetch.
	CleanImage string `json:"-"`
}

// Category is the optional category reference embedded in a product.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryName returns the category label or "N/A" when the product has none.
func (p Product) CategoryName() string {
	if p.Category == nil || strings.TrimSpace(p.Category.Name) == "" {
		return "N/A"
	}
	return p.Category.Name
}

// FirstImage returns the raw first image reference, if any.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Payload is the body sent on create and update. Numeric fields that failed to parse are sent as null.
type Payload struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	CategoryID  *int     `json:"categoryId"`
	Images      []string `json:"images"`
}

// Error describes a failed catalog call. It unwraps to Kind (ErrNetwork or ErrSave) and to the cause.
type Error struct {
	Kind       error
	Op         string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("catalog: ")
	b.WriteString(e.Op)
	switch {
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.StatusCode != 0:
		fmt.Fprintf(&b, ": backend error (%d)", e.StatusCode)
		if e.Body != "" {
			b.WriteString(": ")
			b.WriteString(e.Body)
		} else {
			b.WriteString(": ")
			b.WriteString(http.StatusText(e.StatusCode))
		}
	}
	return b.String()
}

// Unwrap exposes the failure kind and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
