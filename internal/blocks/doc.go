// Package blocks reads benchmark results from the blocks table written by the
// collector.
//
// The schema matches the one used by the chainhammer analysis scripts: one
// row per block with blocknumber, timestamp, size, gasUsed, gasLimit and
// txcount columns. The database is opened with query_only set; nothing in
// this package modifies it.
//
// Ranges are inclusive. [Store.CheckRange] fills in the recorded bounds for
// an unspecified first or last block and rejects ranges that reach outside
// them.
package blocks
