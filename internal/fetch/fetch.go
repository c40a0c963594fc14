// Package fetch retrieves remote resources and classifies them by declared
// content type: markup pages yield extracted tables plus visible text, PDF
// documents yield their text layer, anything else passes through verbatim.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/datalens-ai/datalens/internal/frame"
	"github.com/datalens-ai/datalens/internal/normalize"
)

// Resource kinds in a successful Result.
const (
	KindHTML    = "html"
	KindPDF     = "pdf"
	KindUnknown = "unknown"
)

// TaggedFrame is one extracted markup table with its sequential identifier
// (table_0, table_1, ... in document order).
type TaggedFrame struct {
	ID    string
	Frame *frame.Frame
}

// Result is the tagged outcome of a fetch. Err is set on failure;
// otherwise Kind tells which payload fields are meaningful.
type Result struct {
	Kind    string
	Tables  []TaggedFrame // html only
	Text    string        // html and pdf
	Content string        // unknown only, raw body
	Err     string
}

// OK reports whether the fetch succeeded.
func (r Result) OK() bool { return r.Err == "" }

// Fetcher issues single, synchronous, best-effort GETs. No retries; the
// whole body is buffered before classification. Callers needing large or
// slow resources layer their own timeout via the context.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// New builds a Fetcher. A nil client falls back to http.DefaultClient; a
// nil logger discards.
func New(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch retrieves the address and classifies the response. Failures are
// reported inside the Result, never as a panic or error return.
func (f *Fetcher) Fetch(ctx context.Context, address string) Result {
	target := normalizeAddress(address)
	f.logger.Info("fetching remote resource", "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{Err: err.Error()}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Result{Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{Err: fmt.Sprintf("GET %s: %s", target, resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: err.Error()}
	}

	contentType := resp.Header.Get("Content-Type")
	f.logger.Info("classifying response", "url", target, "content_type", contentType, "bytes", len(body))

	switch {
	case strings.Contains(contentType, "text/html"):
		return classifyHTML(body)
	case strings.Contains(contentType, "application/pdf"):
		text, err := normalize.PDFText(body)
		if err != nil {
			return Result{Err: err.Error()}
		}
		return Result{Kind: KindPDF, Text: text}
	default:
		return Result{Kind: KindUnknown, Content: string(body)}
	}
}

func classifyHTML(body []byte) Result {
	frames, err := normalize.HTMLTables(body)
	if err != nil {
		return Result{Err: err.Error()}
	}
	tables := make([]TaggedFrame, len(frames))
	for i, fr := range frames {
		tables[i] = TaggedFrame{ID: fmt.Sprintf("table_%d", i), Frame: fr}
	}
	text, err := normalize.HTMLText(body)
	if err != nil {
		return Result{Err: err.Error()}
	}
	return Result{Kind: KindHTML, Tables: tables, Text: text}
}

// normalizeAddress prefixes scheme-less addresses with https.
func normalizeAddress(address string) string {
	u, err := url.Parse(address)
	if err == nil && u.Scheme != "" {
		return address
	}
	return "https://" + address
}
