package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// TextWriter outputs a human-readable report with bordered tables.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.println(titleStyle.Render(report.Title))
	if report.Database != "" {
		ew.printf("Database: %s\n", report.Database)
	}
	ew.println(strings.Repeat("─", 60))

	st := report.Stats
	ew.printf("Blocks:              %d\n", report.Range.Len())
	ew.printf("Transactions:        %d\n", st.TxCountSum)
	ew.printf("Non-empty blocks:    %d\n", st.NonEmptyBlocks)
	ew.printf("Max block size:      %d\n", st.SizeMax)
	ew.printf("Max txs per block:   %d\n", st.TxCountMax)
	ew.printf("Avg txs per block:   %.2f\n", st.TxCountAvg)
	ew.printf("Avg txs (non-empty): %.2f\n", st.TxCountAvgNonEmpty)

	if len(report.Columns) > 0 {
		avg := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("metric", "average")
		for _, c := range report.Columns {
			avg.Row(c.Name, formatValue(c.Average))
		}
		ew.println("")
		ew.println(avg.String())
	}

	if len(report.Rows) > 0 {
		headers := []string{"block", "timestamp"}
		for _, c := range report.Columns {
			headers = append(headers, c.Name)
		}
		series := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(headers...)
		for _, r := range report.Rows {
			series.Row(seriesRow(r, formatValue)...)
		}
		ew.println("")
		ew.println(series.String())
	}

	return ew.err
}

func seriesRow(r Row, format func(Value) string) []string {
	cells := make([]string, 0, len(r.Values)+2)
	cells = append(cells,
		strconv.FormatInt(r.Block, 10),
		strconv.FormatFloat(r.Timestamp, 'f', -1, 64),
	)
	for _, v := range r.Values {
		cells = append(cells, format(v))
	}
	return cells
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
