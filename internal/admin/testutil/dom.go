package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// ParseHTML parses a page or fragment body for DOM assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err, "parse html")
	return doc
}

// ProductIDs lists the product ids of the rendered table rows in display order.
func ProductIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find("[data-product-row]").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("data-product-id", ""))
	})
	return ids
}

// PageCSRFToken extracts the CSRF token the console page hands to htmx through hx-headers.
func PageCSRFToken(t testing.TB, doc *goquery.Document) string {
	t.Helper()

	var headers map[string]string
	require.NoError(t, json.Unmarshal([]byte(doc.Find("body").AttrOr("hx-headers", "")), &headers))
	return headers["X-CSRF-Token"]
}
