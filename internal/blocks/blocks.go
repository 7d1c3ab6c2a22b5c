package blocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// TableName is the table the collector writes one row per block into.
const TableName = "blocks"

var (
	ErrNoDatabase = errors.New("block database not found")
	ErrEmpty      = errors.New("no blocks recorded")
	ErrOutOfRange = errors.New("block range out of bounds")
)

// Block is one row of the blocks table.
type Block struct {
	Number    int64   `json:"blocknumber"`
	Timestamp float64 `json:"timestamp"`
	Size      int64   `json:"size"`
	GasUsed   int64   `json:"gasUsed"`
	GasLimit  int64   `json:"gasLimit"`
	TxCount   int64   `json:"txcount"`
}

// Range is an inclusive span of block numbers.
type Range struct {
	First int64 `json:"first"`
	Last  int64 `json:"last"`
}

// Len returns the number of block numbers in the range.
func (r Range) Len() int64 {
	return r.Last - r.First + 1
}

// Stats are aggregate figures over a range.
type Stats struct {
	TxCountSum         int64   `json:"txcount_sum"`
	SizeMax            int64   `json:"size_max"`
	TxCountMax         int64   `json:"txcount_max"`
	TxCountAvg         float64 `json:"txcount_av"`
	TxCountAvgNonEmpty float64 `json:"txcount_av_nonempty"`
	NonEmptyBlocks     int64   `json:"blocks_nonempty_count"`
}

// Store reads a blocks database. It never writes to it.
type Store struct {
	db     *sql.DB
	path   string
	bounds Range
}

// Open opens the database at path and reads the recorded block bounds.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoDatabase, path)
		}
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=query_only(true)")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}

	var lo, hi sql.NullInt64
	row := db.QueryRowContext(ctx, "SELECT MIN(blocknumber), MAX(blocknumber) FROM "+TableName)
	if err := row.Scan(&lo, &hi); err != nil {
		db.Close()
		return nil, fmt.Errorf("reading block bounds from %s: %w", path, err)
	}
	if !lo.Valid || !hi.Valid {
		db.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	s.bounds = Range{First: lo.Int64, Last: hi.Int64}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Bounds returns the lowest and highest recorded block numbers.
func (s *Store) Bounds() Range {
	return s.bounds
}

// CheckRange resolves an optional first and last block against the recorded
// bounds. A nil first starts at the lowest block; a nil or non-positive last
// ends at the highest.
func (s *Store) CheckRange(first, last *int64) (Range, error) {
	r := s.bounds
	if first != nil {
		r.First = *first
	}
	if last != nil && *last > 0 {
		r.Last = *last
	}

	if r.First < s.bounds.First {
		return Range{}, fmt.Errorf("%w: firstblock %d < minblock %d", ErrOutOfRange, r.First, s.bounds.First)
	}
	if r.Last > s.bounds.Last {
		return Range{}, fmt.Errorf("%w: lastblock %d > maxblock %d", ErrOutOfRange, r.Last, s.bounds.Last)
	}
	if r.First > r.Last {
		return Range{}, fmt.Errorf("%w: firstblock %d > lastblock %d", ErrOutOfRange, r.First, r.Last)
	}
	return r, nil
}

// Load returns the blocks in r ordered by block number.
func (s *Store) Load(ctx context.Context, r Range) ([]Block, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT blocknumber, timestamp, COALESCE(size, 0), COALESCE(gasUsed, 0),
			COALESCE(gasLimit, 0), COALESCE(txcount, 0)
		FROM `+TableName+`
		WHERE blocknumber BETWEEN ? AND ?
		ORDER BY blocknumber`, r.First, r.Last)
	if err != nil {
		return nil, fmt.Errorf("querying blocks %d to %d: %w", r.First, r.Last, err)
	}
	defer rows.Close()

	var out []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.Number, &b.Timestamp, &b.Size, &b.GasUsed, &b.GasLimit, &b.TxCount); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading blocks: %w", err)
	}
	return out, nil
}

// Stats computes aggregate figures over r.
func (s *Store) Stats(ctx context.Context, r Range) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(txcount), 0), COALESCE(MAX(size), 0),
			COALESCE(MAX(txcount), 0), COALESCE(AVG(txcount), 0),
			COUNT(CASE WHEN txcount != 0 THEN 1 END)
		FROM `+TableName+`
		WHERE blocknumber BETWEEN ? AND ?`, r.First, r.Last)
	if err := row.Scan(&st.TxCountSum, &st.SizeMax, &st.TxCountMax, &st.TxCountAvg, &st.NonEmptyBlocks); err != nil {
		return Stats{}, fmt.Errorf("computing stats for blocks %d to %d: %w", r.First, r.Last, err)
	}
	if st.NonEmptyBlocks > 0 {
		st.TxCountAvgNonEmpty = float64(st.TxCountSum) / float64(st.NonEmptyBlocks)
	}
	return st, nil
}
