package catalog

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

const (
	// ExportFilename is the download name offered for CSV exports.
	ExportFilename = "products.csv"
	// ExportContentType is the media type of CSV exports.
	ExportContentType = "text/csv;charset=utf-8"

	exportHeader = "ID,Title,Price,Category\n"
)

// WriteCSV writes products as CSV. Title and category are wrapped in quotes but embedded quotes
// are not escaped, so values containing `"` produce malformed rows.
func WriteCSV(w io.Writer, products []Product) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(exportHeader); err != nil {
		return err
	}
	for _, p := range products {
		bw.WriteString(strconv.Itoa(p.ID))
		bw.WriteString(`,"`)
		bw.WriteString(p.Title)
		bw.WriteString(`",`)
		bw.WriteString(FormatPrice(p.Price))
		bw.WriteString(`,"`)
		bw.WriteString(p.CategoryName())
		if _, err := bw.WriteString("\"\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportCSV renders the CSV document in memory.
func ExportCSV(products []Product) []byte {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, products)
	return buf.Bytes()
}

// FormatPrice renders a price in its shortest decimal form (20, 20.5, 0.99).
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
