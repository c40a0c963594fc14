package normalize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/datalens-ai/datalens/internal/frame"
)

type htmlNormalizer struct{}

func (htmlNormalizer) Kind() string { return KindHTML }

// Normalize strips script and style elements and extracts the remaining
// visible text, collapsing markup structure.
func (htmlNormalizer) Normalize(data []byte) (Content, error) {
	text, err := HTMLText(data)
	if err != nil {
		return Content{}, err
	}
	return Content{Text: text}, nil
}

// HTMLText returns the page's visible text with script/style removed and
// whitespace runs collapsed.
func HTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ParseError{Kind: KindHTML, Err: err}
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// HTMLTables extracts every table element into a frame, in document order.
// Header cells (th) name the columns when present; otherwise the first row
// does. Tables with no usable rows are skipped.
func HTMLTables(data []byte) ([]*frame.Frame, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Kind: KindHTML, Err: err}
	}
	var frames []*frame.Frame
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if fr := tableFrame(table); fr != nil {
			frames = append(frames, fr)
		}
	})
	return frames, nil
}

func tableFrame(table *goquery.Selection) *frame.Frame {
	var columns []string
	var rows [][]any

	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if columns == nil {
			columns = dedupeColumns(cells)
			return
		}
		vals := make([]any, len(columns))
		for j := range columns {
			if j < len(cells) {
				vals[j] = parseScalar(cells[j])
			} else {
				vals[j] = ""
			}
		}
		rows = append(rows, vals)
	})

	if columns == nil {
		return nil
	}
	fr, err := frame.New(columns, rows)
	if err != nil {
		return nil
	}
	return fr
}

// dedupeColumns makes header names unique and non-empty so they satisfy
// the frame invariants; real pages repeat or omit header cells freely.
func dedupeColumns(cells []string) []string {
	out := make([]string, len(cells))
	used := map[string]bool{}
	for i, c := range cells {
		if c == "" {
			c = fmt.Sprintf("column_%d", i)
		}
		name := c
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", c, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
