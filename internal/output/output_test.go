package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/bbake/internal/blocks"
	"github.com/dshills/bbake/internal/frame"
)

func testReport(t *testing.T, series bool) *Report {
	t.Helper()
	bs := []blocks.Block{
		{Number: 10, Timestamp: 1000, TxCount: 0, GasUsed: 0, GasLimit: 800},
		{Number: 11, Timestamp: 1002, TxCount: 20, GasUsed: 400, GasLimit: 800},
		{Number: 12, Timestamp: 1003, TxCount: 30, GasUsed: 600, GasLimit: 800},
	}
	f, err := frame.Combined(bs, 0)
	if err != nil {
		t.Fatalf("Combined: %v", err)
	}
	st := blocks.Stats{TxCountSum: 50, SizeMax: 1200, TxCountMax: 30, TxCountAvg: 16.67, NonEmptyBlocks: 2, TxCountAvgNonEmpty: 25}
	return NewReport("raft4", "/tmp/blocks.db", blocks.Range{First: 10, Last: 12}, st, f, series)
}

func TestTitle(t *testing.T) {
	r := blocks.Range{First: 3, Last: 9}
	if got := Title("raft4", r); got != "raft4 blocks 3 to 9" {
		t.Errorf("Title = %q, want %q", got, "raft4 blocks 3 to 9")
	}
	if got := Title("", r); got != "blocks 3 to 9" {
		t.Errorf("Title = %q, want %q", got, "blocks 3 to 9")
	}
}

func TestNewReport(t *testing.T) {
	rep := testReport(t, false)
	if len(rep.Rows) != 0 {
		t.Errorf("Rows = %d, want 0 without series", len(rep.Rows))
	}
	if len(rep.Columns) != 11 {
		t.Fatalf("Columns = %d, want 11", len(rep.Columns))
	}
	if rep.Columns[0].Name != frame.BlockTime {
		t.Errorf("first column = %q, want %q", rep.Columns[0].Name, frame.BlockTime)
	}
	if rep.Columns[0].Average != 1.5 {
		t.Errorf("blocktime average = %v, want 1.5", rep.Columns[0].Average)
	}

	rep = testReport(t, true)
	if len(rep.Rows) != 3 {
		t.Fatalf("Rows = %d, want 3", len(rep.Rows))
	}
	if !rep.Rows[0].Values[0].IsNaN() {
		t.Errorf("first blocktime = %v, want NaN", rep.Rows[0].Values[0])
	}
	// TPS_1blk for block 11: 20 tx in 2s
	if rep.Rows[1].Values[1] != 10 {
		t.Errorf("TPS_1blk = %v, want 10", rep.Rows[1].Values[1])
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{}
	if err := w.Write(&buf, testReport(t, true)); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.Title != "raft4 blocks 10 to 12" {
		t.Errorf("Title = %q", parsed.Title)
	}
	if parsed.Stats.TxCountSum != 50 {
		t.Errorf("txcount_sum = %d, want 50", parsed.Stats.TxCountSum)
	}
	if !parsed.Rows[0].Values[0].IsNaN() {
		t.Errorf("null did not decode to NaN")
	}
	if !strings.Contains(buf.String(), `"TPS_10blks"`) {
		t.Error("missing TPS_10blks column")
	}
	if !strings.Contains(buf.String(), `"average": null`) {
		t.Error("a column with no values should average to null")
	}
}

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Value(1.5), "1.5"},
		{Value(0), "0"},
		{Value(math.NaN()), "null"},
		{Value(math.Inf(1)), "null"},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.v)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", tt.v, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, testReport(t, false)); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"raft4 blocks 10 to 12",
		"Database: /tmp/blocks.db",
		"Transactions:        50",
		"TPS_1blk",
		"GLPS_5blks",
		"1.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "timestamp") {
		t.Error("series table printed without series")
	}
}

func TestTextWriter_Series(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, testReport(t, true)); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "timestamp") {
		t.Error("missing series table")
	}
	if !strings.Contains(out, "1002") {
		t.Error("missing block timestamp")
	}
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, testReport(t, true)); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"## raft4 blocks 10 to 12",
		"| Transactions | 50 |",
		"| blocktime | 1.50 |",
		"| TPS_10blks | - |",
		"<summary>Per-block series (3 rows)</summary>",
		"| 11 | 1002 | 2.00 | 10.00 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&CSVWriter{}).Write(&buf, testReport(t, true)); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}
	if records[0][0] != "blocknumber" || records[0][2] != "blocktime" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][2] != "" {
		t.Errorf("first blocktime = %q, want empty", records[1][2])
	}
	if records[2][3] != "10" {
		t.Errorf("TPS_1blk = %q, want 10", records[2][3])
	}
}

func TestGetWriter(t *testing.T) {
	for _, f := range Formats {
		if _, err := GetWriter(f); err != nil {
			t.Errorf("GetWriter(%q): %v", f, err)
		}
	}
	if _, err := GetWriter("sarif"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteReport_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	var stdout bytes.Buffer
	if err := WriteReport(&stdout, testReport(t, false), "json", path); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if stdout.Len() != 0 {
		t.Error("wrote to stdout when an output path was given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("file is not valid JSON")
	}
}

func TestWriteReport_Stdout(t *testing.T) {
	var stdout bytes.Buffer
	if err := WriteReport(&stdout, testReport(t, false), "markdown", ""); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "## raft4") {
		t.Errorf("stdout = %q", stdout.String())
	}
}
