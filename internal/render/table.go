package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/datalens-ai/datalens/internal/frame"
)

// maxCellClass marks the cell holding each column's maximum value.
const maxCellClass = "max-cell"

var tableTmpl = template.Must(template.New("table").Parse(`<table class="result-table">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td{{if .Max}} class="` + maxCellClass + `"{{end}}>{{.Value}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>`))

type tableCell struct {
	Value string
	Max   bool
}

type tableView struct {
	Columns []string
	Rows    [][]tableCell
}

// TableHTML renders the frame as a grid with per-column maxima
// highlighted.
func TableHTML(f *frame.Frame) (template.HTML, error) {
	maxes := f.MaxRowByColumn()
	view := tableView{Columns: f.Columns()}
	for i := 0; i < f.NumRows(); i++ {
		row := make([]tableCell, f.NumCols())
		for j := 0; j < f.NumCols(); j++ {
			row[j] = tableCell{
				Value: fmt.Sprintf("%v", f.Cell(i, j)),
				Max:   maxes[j] == i,
			}
		}
		view.Rows = append(view.Rows, row)
	}
	var b strings.Builder
	if err := tableTmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return template.HTML(b.String()), nil
}
