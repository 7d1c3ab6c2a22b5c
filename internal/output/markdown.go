package output

import (
	"io"
	"strings"
)

// MarkdownWriter outputs a report suitable for pasting into an issue or a
// results page.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}
	st := report.Stats

	ew.printf("## %s\n\n", report.Title)
	if report.Database != "" {
		ew.printf("Database: `%s`\n\n", report.Database)
	}

	ew.printf("| Stat | Value |\n")
	ew.printf("|------|-------|\n")
	ew.printf("| Blocks | %d |\n", report.Range.Len())
	ew.printf("| Transactions | %d |\n", st.TxCountSum)
	ew.printf("| Non-empty blocks | %d |\n", st.NonEmptyBlocks)
	ew.printf("| Max block size | %d |\n", st.SizeMax)
	ew.printf("| Max txs per block | %d |\n", st.TxCountMax)
	ew.printf("| Avg txs per block | %.2f |\n", st.TxCountAvg)
	ew.printf("| Avg txs (non-empty) | %.2f |\n\n", st.TxCountAvgNonEmpty)

	if len(report.Columns) > 0 {
		ew.printf("| Metric | Average |\n")
		ew.printf("|--------|---------|\n")
		for _, c := range report.Columns {
			ew.printf("| %s | %s |\n", c.Name, formatValue(c.Average))
		}
		ew.println("")
	}

	if len(report.Rows) > 0 {
		headers := []string{"block", "timestamp"}
		for _, c := range report.Columns {
			headers = append(headers, c.Name)
		}
		ew.println("<details>")
		ew.printf("<summary>Per-block series (%d rows)</summary>\n\n", len(report.Rows))
		ew.println(mdRow(headers))
		ew.println("|" + strings.Repeat("---|", len(headers)))
		for _, r := range report.Rows {
			ew.println(mdRow(seriesRow(r, formatValue)))
		}
		ew.println("\n</details>")
	}

	return ew.err
}

func mdRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}
