package frame

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Frame is an in-memory table: ordered, uniquely named columns with
// row-aligned scalar values. Row width always equals the column count.
type Frame struct {
	columns []string
	rows    [][]any
}

// New builds a Frame and validates its shape: non-empty unique column names
// and uniform row width.
func New(columns []string, rows [][]any) (*Frame, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("frame: no columns")
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("frame: empty column name")
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("frame: duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("frame: row %d has %d values, want %d", i, len(r), len(columns))
		}
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{columns: cols, rows: rows}, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return len(f.rows) }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.columns) }

// Cell returns the value at the given row and column index.
func (f *Frame) Cell(row, col int) any { return f.rows[row][col] }

// Row returns one row by index.
func (f *Frame) Row(i int) []any { return f.rows[i] }

// Column returns the values of the named column, or nil if absent.
func (f *Frame) Column(name string) []any {
	idx := -1
	for i, c := range f.columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]any, len(f.rows))
	for i, r := range f.rows {
		out[i] = r[idx]
	}
	return out
}

// Head returns a new Frame limited to the first n rows. n larger than the
// row count returns the frame unchanged.
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n >= len(f.rows) {
		return f
	}
	return &Frame{columns: f.columns, rows: f.rows[:n]}
}

// Records returns the rows as ordered column->value maps, the shape the
// agent receives.
func (f *Frame) Records() []map[string]any {
	recs := make([]map[string]any, len(f.rows))
	for i, r := range f.rows {
		m := make(map[string]any, len(f.columns))
		for j, c := range f.columns {
			m[c] = r[j]
		}
		recs[i] = m
	}
	return recs
}

// MarshalJSON encodes the frame as {"columns": [...], "data": [[...], ...]}.
func (f *Frame) MarshalJSON() ([]byte, error) {
	rows := f.rows
	if rows == nil {
		rows = [][]any{}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Data    [][]any  `json:"data"`
	}{Columns: f.columns, Data: rows})
}

// UnmarshalJSON decodes the {"columns", "data"} shape produced by
// MarshalJSON and by the agent's table payloads.
func (f *Frame) UnmarshalJSON(b []byte) error {
	var raw struct {
		Columns []string `json:"columns"`
		Data    [][]any  `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	nf, err := New(raw.Columns, raw.Data)
	if err != nil {
		return err
	}
	*f = *nf
	return nil
}

// Fingerprint returns a stable content hash of the frame, used as part of
// the agent response cache key.
func (f *Frame) Fingerprint() string {
	h := sha256.New()
	for _, c := range f.columns {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, r := range f.rows {
		for _, v := range r {
			fmt.Fprintf(h, "%v", v)
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MaxRowByColumn returns, per column index, the index of the row holding
// that column's maximum numeric value. Columns with no numeric values map
// to -1. Used by the table renderer for cell highlighting.
func (f *Frame) MaxRowByColumn() []int {
	out := make([]int, len(f.columns))
	for j := range f.columns {
		best := -1
		var bestVal float64
		for i, r := range f.rows {
			v, ok := asFloat(r[j])
			if !ok {
				continue
			}
			if best < 0 || v > bestVal {
				best, bestVal = i, v
			}
		}
		out[j] = best
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
