package helpers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	require.Equal(t, "$20", Price(20))
	require.Equal(t, "$12.5", Price(12.5))
	require.Equal(t, "$0.99", Price(0.99))
}

func TestPageInfo(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Page 3 - showing up to 20 products", PageInfo(3, 20))
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Soft cotton hoodie", want: "Soft cotton hoodie"},
		{name: "markup stripped", in: `<b>Bold</b> <script>alert(1)</script>claim`, want: "Bold claim"},
		{name: "entities decoded", in: "Fish &amp; chips", want: "Fish & chips"},
		{name: "whitespace collapsed", in: "  a\n\n b  ", want: "a b"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, PlainText(tc.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abc…", Truncate("abcdef", 3))
	require.Empty(t, Truncate("abc", 0))
}

func TestHighlightSegments(t *testing.T) {
	t.Parallel()

	segments := HighlightSegments("Classic Red Hoodie hoodie", "HOODIE")
	require.Equal(t, []HighlightSegment{
		{Text: "Classic Red "},
		{Text: "Hoodie", Match: true},
		{Text: " "},
		{Text: "hoodie", Match: true},
	}, segments)

	require.Equal(t, []HighlightSegment{{Text: "Lamp"}}, HighlightSegments("Lamp", " "))
	require.Nil(t, HighlightSegments("", "x"))
}

func TestJoinBase(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/admin/products", JoinBase("/admin", "/products"))
	require.Equal(t, "/admin/products", JoinBase("/admin/", "products"))
	require.Equal(t, "/products", JoinBase("/", "/products"))
	require.Equal(t, "/products", JoinBase("", "products"))
}

func TestMarkupEscapesTextAndAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := NewMarkup(context.Background(), &buf)
	m.Raw(`<a`)
	m.Attr("title", `say "hi"`)
	m.BoolAttr("hidden", false)
	m.BoolAttr("download", true)
	m.Raw(`>`)
	m.Text(`<b>"x"</b>`)
	m.Raw(`</a>`)

	require.NoError(t, m.Err())
	require.Equal(t, `<a title="say &#34;hi&#34;" download>&lt;b&gt;&#34;x&#34;&lt;/b&gt;</a>`, buf.String())
}
