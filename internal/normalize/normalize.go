// Package normalize turns raw bytes of supported document formats into one
// of two canonical shapes: a tabular frame (spreadsheet, delimited text) or
// a plain-text blob (word-processor, markup, PDF).
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datalens-ai/datalens/internal/frame"
)

// Supported input kinds, as declared by the caller (file-type selector in
// the UI, --type flag on the CLI).
const (
	KindXLSX = "xlsx"
	KindCSV  = "csv"
	KindDOCX = "docx"
	KindHTML = "html"
	KindPDF  = "pdf"
)

// Content is the canonical output: exactly one of Frame or Text is set.
type Content struct {
	Frame *frame.Frame
	Text  string
}

// IsTabular reports whether the content carries a frame.
func (c Content) IsTabular() bool { return c.Frame != nil }

// Normalizer converts raw bytes of one format into canonical content.
type Normalizer interface {
	Kind() string
	Normalize(data []byte) (Content, error)
}

var registry = map[string]Normalizer{}

// Register adds a normalizer implementation to the registry.
func Register(n Normalizer) {
	registry[n.Kind()] = n
}

// ByKind looks up the normalizer for a declared input kind.
func ByKind(kind string) (Normalizer, bool) {
	n, ok := registry[kind]
	return n, ok
}

// KindForFile guesses the input kind from a filename extension.
func KindForFile(name string) (string, bool) {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return KindXLSX, true
	case strings.HasSuffix(name, ".csv"):
		return KindCSV, true
	case strings.HasSuffix(name, ".docx"):
		return KindDOCX, true
	case strings.HasSuffix(name, ".html"), strings.HasSuffix(name, ".htm"):
		return KindHTML, true
	case strings.HasSuffix(name, ".pdf"):
		return KindPDF, true
	}
	return "", false
}

// Normalize runs the registered normalizer for the declared kind.
func Normalize(kind string, data []byte) (Content, error) {
	n, ok := ByKind(kind)
	if !ok {
		return Content{}, &ParseError{Kind: kind, Err: fmt.Errorf("unsupported format")}
	}
	return n.Normalize(data)
}

// ParseError reports a byte stream that does not match its declared format.
type ParseError struct {
	Kind string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Kind, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// parseScalar interprets a cell string as int64, float64, or leaves it as a
// string. Keeps numeric columns numeric so downstream highlighting and
// charting see numbers instead of text.
func parseScalar(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return s
}

func init() {
	Register(xlsxNormalizer{})
	Register(csvNormalizer{})
	Register(docxNormalizer{})
	Register(htmlNormalizer{})
	Register(pdfNormalizer{})
}
