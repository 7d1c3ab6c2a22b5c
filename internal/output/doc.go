// Package output formats block metric reports for display or machine
// consumption.
//
// Four formats are supported:
//   - text: bordered terminal tables (default)
//   - json: the full report; missing values are null
//   - markdown: summary tables with the series in a collapsible section
//   - csv: the per-block series, one row per block
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*Report]. [WriteReport] handles
// choosing between a file and stdout.
package output
