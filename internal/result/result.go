// Package result defines the structured payload returned by the analysis
// pipeline: a record of four independently optional sections (narrative
// answer, table, bar chart, line chart) decoded from the agent's JSON
// mapping.
package result

import (
	"encoding/json"
	"fmt"

	"github.com/datalens-ai/datalens/internal/frame"
)

// ChartSpec describes a bar or line chart: ordered category labels with
// parallel numeric values, plus optional title and axis labels.
type ChartSpec struct {
	Columns []string  `json:"columns"`
	Data    []float64 `json:"data"`
	Title   string    `json:"title,omitempty"`
	XLabel  string    `json:"x_label,omitempty"`
	YLabel  string    `json:"y_label,omitempty"`
}

// Validate enforces the category/value parallelism invariant.
func (c *ChartSpec) Validate() error {
	if c == nil {
		return nil
	}
	if len(c.Columns) != len(c.Data) {
		return &ValidationError{
			Reason: fmt.Sprintf("chart has %d categories but %d values", len(c.Columns), len(c.Data)),
		}
	}
	return nil
}

// IsEmpty reports a chart with nothing to plot. An empty spec is valid but
// its section is omitted rather than rendered blank.
func (c *ChartSpec) IsEmpty() bool {
	return c == nil || len(c.Columns) == 0
}

// Result is the analysis outcome. Any subset of fields may be present,
// including all four or none.
type Result struct {
	Answer string       `json:"answer,omitempty"`
	Table  *frame.Frame `json:"table,omitempty"`
	Bar    *ChartSpec   `json:"bar,omitempty"`
	Line   *ChartSpec   `json:"line,omitempty"`
}

// IsEmpty reports whether no section is present.
func (r *Result) IsEmpty() bool {
	return r == nil || (r.Answer == "" && r.Table == nil && r.Bar == nil && r.Line == nil)
}

// Validate checks every chart section present. Called once at the
// dispatcher boundary so malformed specs never reach rendering.
func (r *Result) Validate() error {
	if err := r.Bar.Validate(); err != nil {
		return fmt.Errorf("bar: %w", err)
	}
	if err := r.Line.Validate(); err != nil {
		return fmt.Errorf("line: %w", err)
	}
	return nil
}

// Decode parses the agent's raw JSON mapping into a Result. Unknown keys
// are ignored; recognized keys are decoded independently so one absent
// section never masks another.
func Decode(raw []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}
	return &r, nil
}

// ValidationError reports input that blocks the pipeline before any work
// happens: a malformed chart spec, a missing content source, or an empty
// query.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Reason)
}
