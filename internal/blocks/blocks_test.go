package blocks

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createTable = `CREATE TABLE IF NOT EXISTS blocks(
	blocknumber INTEGER UNIQUE
	,timestamp DECIMAL
	,size INTEGER
	,gasUsed INTEGER
	,gasLimit INTEGER
	,txcount INTEGER
	,hash TEXT
	,parentHash TEXT
	,extra TEXT
	)`

// newTestDB writes blocks into a fresh database and returns its path.
func newTestDB(t *testing.T, bs []Block) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(createTable)
	require.NoError(t, err)
	for _, b := range bs {
		_, err := db.Exec(`INSERT INTO blocks(blocknumber,timestamp,size,gasUsed,gasLimit,txcount,extra)
			VALUES(?,?,?,?,?,?,?)`, b.Number, int64(b.Timestamp), b.Size, b.GasUsed, b.GasLimit, b.TxCount, "")
		require.NoError(t, err)
	}
	return path
}

func fixture() []Block {
	return []Block{
		{Number: 10, Timestamp: 1000, Size: 600, GasUsed: 0, GasLimit: 8000, TxCount: 0},
		{Number: 11, Timestamp: 1002, Size: 900, GasUsed: 4000, GasLimit: 8000, TxCount: 20},
		{Number: 12, Timestamp: 1003, Size: 1200, GasUsed: 6000, GasLimit: 8000, TxCount: 30},
		{Number: 13, Timestamp: 1005, Size: 700, GasUsed: 1000, GasLimit: 8000, TxCount: 10},
		{Number: 14, Timestamp: 1006, Size: 600, GasUsed: 0, GasLimit: 8000, TxCount: 0},
	}
}

func ptr(v int64) *int64 { return &v }

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), newTestDB(t, fixture()))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, Range{First: 10, Last: 14}, s.Bounds())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.db"))
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestOpen_Empty(t *testing.T) {
	_, err := Open(context.Background(), newTestDB(t, nil))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCheckRange(t *testing.T) {
	s, err := Open(context.Background(), newTestDB(t, fixture()))
	require.NoError(t, err)
	defer s.Close()

	tests := []struct {
		name        string
		first, last *int64
		want        Range
		wantErr     bool
	}{
		{"defaults", nil, nil, Range{10, 14}, false},
		{"explicit", ptr(11), ptr(13), Range{11, 13}, false},
		{"zero last means max", ptr(12), ptr(0), Range{12, 14}, false},
		{"negative last means max", nil, ptr(-1), Range{10, 14}, false},
		{"single block", ptr(12), ptr(12), Range{12, 12}, false},
		{"first below min", ptr(9), nil, Range{}, true},
		{"last above max", nil, ptr(15), Range{}, true},
		{"inverted", ptr(13), ptr(11), Range{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.CheckRange(tt.first, tt.last)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	s, err := Open(context.Background(), newTestDB(t, fixture()))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(context.Background(), Range{11, 13})
	require.NoError(t, err)
	assert.Equal(t, fixture()[1:4], got)
}

func TestStats(t *testing.T) {
	s, err := Open(context.Background(), newTestDB(t, fixture()))
	require.NoError(t, err)
	defer s.Close()

	st, err := s.Stats(context.Background(), s.Bounds())
	require.NoError(t, err)

	assert.Equal(t, int64(60), st.TxCountSum)
	assert.Equal(t, int64(1200), st.SizeMax)
	assert.Equal(t, int64(30), st.TxCountMax)
	assert.InDelta(t, 12.0, st.TxCountAvg, 1e-9)
	assert.Equal(t, int64(3), st.NonEmptyBlocks)
	assert.InDelta(t, 20.0, st.TxCountAvgNonEmpty, 1e-9)

	st, err = s.Stats(context.Background(), Range{14, 14})
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.NonEmptyBlocks)
	assert.Equal(t, 0.0, st.TxCountAvgNonEmpty)
}

func TestRangeLen(t *testing.T) {
	assert.Equal(t, int64(1), Range{5, 5}.Len())
	assert.Equal(t, int64(10), Range{1, 10}.Len())
}
