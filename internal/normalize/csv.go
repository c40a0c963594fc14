package normalize

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/datalens-ai/datalens/internal/frame"
)

type csvNormalizer struct{}

func (csvNormalizer) Kind() string { return KindCSV }

// Normalize parses comma-separated content: the header row names the
// columns, every following record becomes a row.
func (csvNormalizer) Normalize(data []byte) (Content, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return Content{}, &ParseError{Kind: KindCSV, Err: err}
	}
	if len(records) == 0 {
		return Content{}, &ParseError{Kind: KindCSV, Err: fmt.Errorf("no header row")}
	}

	columns := records[0]
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		vals := make([]any, len(rec))
		for j, cell := range rec {
			vals[j] = parseScalar(cell)
		}
		rows = append(rows, vals)
	}

	fr, err := frame.New(columns, rows)
	if err != nil {
		return Content{}, &ParseError{Kind: KindCSV, Err: err}
	}
	return Content{Frame: fr}, nil
}
