package normalize

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/datalens-ai/datalens/internal/frame"
)

type xlsxNormalizer struct{}

func (xlsxNormalizer) Kind() string { return KindXLSX }

// Normalize reads the workbook's sole sheet. Multi-sheet workbooks need an
// explicit choice; use NormalizeXLSX with a sheet name instead.
func (xlsxNormalizer) Normalize(data []byte) (Content, error) {
	names, err := SheetNames(data)
	if err != nil {
		return Content{}, err
	}
	if len(names) > 1 {
		return Content{}, &ParseError{Kind: KindXLSX, Err: fmt.Errorf("workbook has %d sheets, select one", len(names))}
	}
	return NormalizeXLSX(data, names[0])
}

// SheetNames lists the workbook's sheets in order.
func SheetNames(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Kind: KindXLSX, Err: err}
	}
	defer f.Close()
	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, &ParseError{Kind: KindXLSX, Err: fmt.Errorf("workbook has no sheets")}
	}
	return names, nil
}

// NormalizeXLSX extracts the named sheet into a frame. Column names come
// from the first row; short rows are padded so the frame stays rectangular.
func NormalizeXLSX(data []byte, sheet string) (Content, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Content{}, &ParseError{Kind: KindXLSX, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Content{}, &ParseError{Kind: KindXLSX, Err: err}
	}
	if len(rows) == 0 {
		return Content{}, &ParseError{Kind: KindXLSX, Err: fmt.Errorf("sheet %q is empty", sheet)}
	}

	header := rows[0]
	columns := make([]string, len(header))
	for i, h := range header {
		if h == "" {
			h = fmt.Sprintf("column_%d", i)
		}
		columns[i] = h
	}

	data2 := make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		vals := make([]any, len(columns))
		for j := range columns {
			if j < len(row) {
				vals[j] = parseScalar(row[j])
			} else {
				vals[j] = ""
			}
		}
		data2 = append(data2, vals)
	}

	fr, err := frame.New(columns, data2)
	if err != nil {
		return Content{}, &ParseError{Kind: KindXLSX, Err: err}
	}
	return Content{Frame: fr}, nil
}
