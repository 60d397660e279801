package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loads.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, csvHeader, rows[0])
}

func TestCSVJournalRecordLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loads.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, j.RecordLoad(sampleLoad("L1", ts, false)))
	require.NoError(t, j.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"L1", "2025-01-02T03:04:05Z", "kline", "binance", "spot", "", "aggTrades_kline", "1m",
		"BTCUSDT,ETHUSDT", "2024,2025", "false", "4", "1440", "125",
	}, rows[1])
}

func TestCSVJournalAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loads.csv")
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, id := range []string{"L1", "L2"} {
		j, err := NewCSV(path)
		require.NoError(t, err)
		require.NoError(t, j.RecordLoad(sampleLoad(id, ts, true)))
		require.NoError(t, j.Close())
	}

	rows := readCSV(t, path)
	require.Len(t, rows, 3, "header is written once")
	assert.Equal(t, "L1", rows[1][0])
	assert.Equal(t, "L2", rows[2][0])
}

func TestNop(t *testing.T) {
	var j Journal = Nop{}
	assert.NoError(t, j.RecordLoad(LoadRecord{}))
	assert.NoError(t, j.Close())
}
