package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVWriter outputs the per-block series, one row per block. Missing values
// are empty cells.
type CSVWriter struct{}

func (c *CSVWriter) Write(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)

	header := []string{"blocknumber", "timestamp"}
	for _, col := range report.Columns {
		header = append(header, col.Name)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}

	for _, r := range report.Rows {
		if err := cw.Write(seriesRow(r, csvValue)); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvValue(v Value) string {
	if v.IsNaN() {
		return ""
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}
