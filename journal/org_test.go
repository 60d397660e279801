package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatLoadOrg(t *testing.T) {
	t.Parallel()

	rec := sampleLoad("01HZX9ABCDEFGHJKMNPQRSTVWX", time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC), true)
	rec.Market = "future"
	rec.MarketSub = "um"

	result := FormatLoadOrg(rec)

	assert.Contains(t, result, "** Load: kline 1m BTCUSDT ETHUSDT (01HZX9AB)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01HZX9ABCDEFGHJKMNPQRSTVWX")
	assert.Contains(t, result, ":TIME: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":DATASET: binance/future/um/aggTrades_kline")
	assert.Contains(t, result, ":YEARS: 2024,2025")
	assert.Contains(t, result, ":CACHE_HIT: true")
	assert.Contains(t, result, ":ROWS: 1440")
	assert.Contains(t, result, ":ELAPSED: 125ms")
	assert.True(t, strings.HasSuffix(result, ":END:\n"))
}

func TestFormatLoadOrgParquet(t *testing.T) {
	t.Parallel()

	rec := LoadRecord{ID: "abc", Op: "parquet", Source: "binance", Market: "spot", DataType: "aggTrades", Symbols: []string{"SUIUSDT"}}
	result := FormatLoadOrg(rec)

	assert.Contains(t, result, "** Load: parquet aggTrades SUIUSDT (abc)")
	assert.Contains(t, result, ":DATASET: binance/spot/aggTrades")
	assert.NotContains(t, result, ":YEARS:")
}

func TestFormatLoadsOrg(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	out := FormatLoadsOrg([]LoadRecord{sampleLoad("A", ts, true), sampleLoad("B", ts, false)})

	assert.Equal(t, 2, strings.Count(out, "** Load:"))
	assert.Empty(t, FormatLoadsOrg(nil))
}
