package frame

import (
	"errors"
	"fmt"
	"math"

	"github.com/dshills/bbake/internal/blocks"
)

// BlockTime is the name of the block time column.
const BlockTime = "blocktime"

// Standard windows used by the combined view.
var (
	TPSWindows = []int{1, 3, 5, 10}
	GasWindows = []int{1, 3, 5}
)

var (
	ErrNoBlockTime = errors.New("blocktime column not computed")
	ErrWindow      = errors.New("window must be at least one block")
)

// Frame holds a block range and the columns derived from it. Missing values
// are NaN.
type Frame struct {
	blocks     []blocks.Block
	timestamps []float64
	cols       map[string][]float64
	order      []string
}

// New returns a frame over bs, which must be ordered by block number.
func New(bs []blocks.Block) *Frame {
	ts := make([]float64, len(bs))
	for i, b := range bs {
		ts[i] = b.Timestamp
	}
	return &Frame{
		blocks:     bs,
		timestamps: ts,
		cols:       make(map[string][]float64),
	}
}

// Combined builds the standard frame: block time, TPS over 1, 3, 5 and 10
// blocks, and gas used and gas limit per second over 1, 3 and 5 blocks.
func Combined(bs []blocks.Block, timescale float64) (*Frame, error) {
	f := New(bs)
	f.AddBlockTime(timescale)
	for _, w := range TPSWindows {
		if _, err := f.AddTPS(w); err != nil {
			return nil, err
		}
	}
	for _, w := range GasWindows {
		if _, err := f.AddGUPS(w); err != nil {
			return nil, err
		}
	}
	for _, w := range GasWindows {
		if _, err := f.AddGLPS(w); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of blocks.
func (f *Frame) Len() int { return len(f.blocks) }

// Blocks returns the underlying rows.
func (f *Frame) Blocks() []blocks.Block { return f.blocks }

// Timestamps returns the block timestamps after any timescale division.
func (f *Frame) Timestamps() []float64 { return f.timestamps }

// Columns returns the derived column names in the order they were added.
func (f *Frame) Columns() []string { return f.order }

// Column returns the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// AddBlockTime adds blocktime[n] = timestamp[n] - timestamp[n-1]. The first
// block has no predecessor in the frame and gets NaN. A positive timescale
// divides the timestamps first; raft reports nanoseconds, so 1e9 converts
// them to seconds.
func (f *Frame) AddBlockTime(timescale float64) {
	if timescale > 0 {
		for i := range f.timestamps {
			f.timestamps[i] /= timescale
		}
	}
	bt := make([]float64, len(f.timestamps))
	for i := range bt {
		if i == 0 {
			bt[i] = math.NaN()
			continue
		}
		bt[i] = f.timestamps[i] - f.timestamps[i-1]
	}
	f.set(BlockTime, bt)
}

// AddTPS adds transactions per second averaged over window blocks and
// returns the column name.
func (f *Frame) AddTPS(window int) (string, error) {
	return f.addRate("TPS", window, func(b blocks.Block) float64 { return float64(b.TxCount) })
}

// AddGUPS adds gas used per second averaged over window blocks.
func (f *Frame) AddGUPS(window int) (string, error) {
	return f.addRate("GUPS", window, func(b blocks.Block) float64 { return float64(b.GasUsed) })
}

// AddGLPS adds gas limit per second averaged over window blocks.
func (f *Frame) AddGLPS(window int) (string, error) {
	return f.addRate("GLPS", window, func(b blocks.Block) float64 { return float64(b.GasLimit) })
}

// Mean returns the mean of the non-NaN values of the named column, or NaN
// if there are none.
func (f *Frame) Mean(name string) float64 {
	var sum float64
	var n int
	for _, v := range f.cols[name] {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// ColumnName formats a windowed column name, e.g. TPS_1blk or GUPS_5blks.
func ColumnName(prefix string, window int) string {
	plural := ""
	if window > 1 {
		plural = "s"
	}
	return fmt.Sprintf("%s_%dblk%s", prefix, window, plural)
}

// RollingSum returns the sum of each run of window consecutive values ending
// at i. Positions with fewer than window values, or with a NaN in the run,
// are NaN.
func RollingSum(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		for _, v := range values[i+1-window : i+1] {
			sum += v
		}
		out[i] = sum
	}
	return out
}

// addRate adds rolling-sum(field) / rolling-sum(blocktime).
func (f *Frame) addRate(prefix string, window int, field func(blocks.Block) float64) (string, error) {
	if window < 1 {
		return "", fmt.Errorf("%w: %d", ErrWindow, window)
	}
	bt, ok := f.cols[BlockTime]
	if !ok {
		return "", ErrNoBlockTime
	}

	values := make([]float64, len(f.blocks))
	for i, b := range f.blocks {
		values[i] = field(b)
	}
	num := RollingSum(values, window)
	den := RollingSum(bt, window)

	rate := make([]float64, len(values))
	for i := range rate {
		rate[i] = num[i] / den[i]
	}

	name := ColumnName(prefix, window)
	f.set(name, rate)
	return name, nil
}

func (f *Frame) set(name string, values []float64) {
	if _, ok := f.cols[name]; !ok {
		f.order = append(f.order, name)
	}
	f.cols[name] = values
}
