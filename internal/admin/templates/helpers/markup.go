package helpers

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Markup writes HTML fragments and keeps the first write error.
type Markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewMarkup returns a writer bound to the render context.
func NewMarkup(ctx context.Context, w io.Writer) *Markup {
	return &Markup{ctx: ctx, w: w}
}

// Raw writes trusted markup as-is.
func (m *Markup) Raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// Text writes escaped text content.
func (m *Markup) Text(s string) {
	m.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with the value escaped.
func (m *Markup) Attr(name, value string) {
	m.Raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

// BoolAttr writes a valueless attribute when on is true.
func (m *Markup) BoolAttr(name string, on bool) {
	if on {
		m.Raw(" " + name)
	}
}

// Component renders a nested component.
func (m *Markup) Component(c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

// Err returns the first write error.
func (m *Markup) Err() error {
	return m.err
}
