package normalize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

type pdfNormalizer struct{}

func (pdfNormalizer) Kind() string { return KindPDF }

// Normalize concatenates the extracted text of every page in page order.
// Quality depends on the embedded text layer; scanned-image pages simply
// contribute nothing.
func (pdfNormalizer) Normalize(data []byte) (Content, error) {
	text, err := PDFText(data)
	if err != nil {
		return Content{}, err
	}
	return Content{Text: text}, nil
}

// PDFText extracts the document's text layer.
func PDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParseError{Kind: KindPDF, Err: fmt.Errorf("open document: %w", err)}
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Pages without a text layer (or with extraction glitches)
		// yield empty text rather than failing the whole document.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
