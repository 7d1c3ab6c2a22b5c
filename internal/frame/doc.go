// Package frame derives per-block metrics from a loaded block range.
//
// Block time is the difference between successive timestamps. Rates are
// rolling sums of a block field divided by the rolling sum of block time over
// the same window, so TPS_3blks at block n is the transaction count of blocks
// n-2..n divided by the time those three blocks took.
package frame
