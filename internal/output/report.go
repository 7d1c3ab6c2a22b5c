package output

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/bbake/internal/blocks"
	"github.com/dshills/bbake/internal/frame"
)

// Value is a metric value. NaN means no value and encodes as null.
type Value float64

// IsNaN reports whether v holds no value.
func (v Value) IsNaN() bool { return math.IsNaN(float64(v)) }

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// Column is a derived metric and its mean over the range.
type Column struct {
	Name    string `json:"name"`
	Average Value  `json:"average"`
}

// Row is one block of the series, with one value per column.
type Row struct {
	Block     int64   `json:"blocknumber"`
	Timestamp float64 `json:"timestamp"`
	Values    []Value `json:"values"`
}

// Report is the result of a blocks stats run.
type Report struct {
	Title    string       `json:"title"`
	Database string       `json:"database"`
	Range    blocks.Range `json:"range"`
	Stats    blocks.Stats `json:"stats"`
	Columns  []Column     `json:"columns"`
	Rows     []Row        `json:"rows,omitempty"`
}

// NewReport builds a report over a computed frame. Rows are included only
// when series is set.
func NewReport(prefix, database string, r blocks.Range, st blocks.Stats, f *frame.Frame, series bool) *Report {
	rep := &Report{
		Title:    Title(prefix, r),
		Database: database,
		Range:    r,
		Stats:    st,
	}

	names := f.Columns()
	for _, name := range names {
		rep.Columns = append(rep.Columns, Column{Name: name, Average: Value(f.Mean(name))})
	}
	if !series {
		return rep
	}

	ts := f.Timestamps()
	for i, b := range f.Blocks() {
		row := Row{Block: b.Number, Timestamp: ts[i], Values: make([]Value, len(names))}
		for j, name := range names {
			col, _ := f.Column(name)
			row.Values[j] = Value(col[i])
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep
}

// Title formats the report heading, e.g. "raft4 blocks 10 to 250".
func Title(prefix string, r blocks.Range) string {
	return strings.TrimSpace(prefix + " blocks " + strconv.FormatInt(r.First, 10) + " to " + strconv.FormatInt(r.Last, 10))
}

// formatValue renders v for tables. Missing values render as "-".
func formatValue(v Value) string {
	if v.IsNaN() || math.IsInf(float64(v), 0) {
		return "-"
	}
	return strconv.FormatFloat(float64(v), 'f', 2, 64)
}
