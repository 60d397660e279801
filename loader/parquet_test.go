package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradedata/market"
	"github.com/rustyeddy/tradedata/store"
)

type aggTrade struct {
	ID    int64     `parquet:"agg_trade_id"`
	Price float64   `parquet:"price"`
	Qty   float64   `parquet:"quantity"`
	Time  time.Time `parquet:"transact_time,timestamp(millisecond)"`
	Maker bool      `parquet:"is_buyer_maker"`
}

type metric struct {
	Time  time.Time `parquet:"create_time,timestamp(millisecond)"`
	OI    float64   `parquet:"sum_open_interest"`
	Ratio float64   `parquet:"count_toptrader_long_short_ratio"`
}

type ohlcv struct {
	Time   int64   `parquet:"open_time"`
	Open   float64 `parquet:"open"`
	High   float64 `parquet:"HIGH"`
	Low    float64 `parquet:"Low"`
	Close  float64 `parquet:"close"`
	Volume float64 `parquet:"volume"`
}

type funding struct {
	Time time.Time `parquet:"calc_time,timestamp(millisecond)"`
	Rate float64   `parquet:"last_funding_rate"`
}

func writeRows[T any](t *testing.T, dir, name string, rows []T) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, store.Write(path, rows))
	return path
}

func TestLatestFile(t *testing.T) {
	dir := t.TempDir()
	touch := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	_, err := LatestFile(filepath.Join(dir, "BTCUSDT_metrics_*_*.parquet"))
	assert.ErrorIs(t, err, ErrNotFound)

	touch("BTCUSDT_metrics_junk_x.parquet")
	_, err = LatestFile(filepath.Join(dir, "BTCUSDT_metrics_*_*.parquet"))
	assert.ErrorIs(t, err, ErrNotFound)

	touch("BTCUSDT_metrics_20241201_20250101.parquet")
	touch("BTCUSDT_metrics_20250101_20250115.parquet")
	touch("BTCUSDT_metrics_20241215_2025-01-10.parquet")
	got, err := LatestFile(filepath.Join(dir, "BTCUSDT_metrics_*_*.parquet"))
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT_metrics_20250101_20250115.parquet", filepath.Base(got))

	// Equal end dates resolve to the first name.
	touch("BTCUSDT_metrics_20240101_2025-01-15.parquet")
	got, err = LatestFile(filepath.Join(dir, "BTCUSDT_metrics_*_*.parquet"))
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT_metrics_20240101_2025-01-15.parquet", filepath.Base(got))
}

func TestLoadParquetLatestMetrics(t *testing.T) {
	f := newFixture(t)
	ds := market.Dataset{Source: "binance", Market: market.Future, MarketSub: market.UM, DataType: market.Metrics}
	dir := ds.SymbolDir(f.root, "BTCUSDT")
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	writeRows(t, dir, "BTCUSDT_metrics_20241201_20250101.parquet", []metric{{Time: t0, OI: 1}})
	writeRows(t, dir, "BTCUSDT_metrics_20250101_20250115.parquet", []metric{{Time: t0, OI: 2}, {Time: t0.Add(time.Hour), OI: 3}})

	tbl, err := f.l.LoadParquet(ParquetRequest{
		Source: "binance", Market: market.Future, MarketSub: market.UM,
		DataType: market.Metrics, Symbol: "BTCUSDT",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"create_time", "sum_open_interest", "count_toptrader_long_short_ratio"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, 2.0, tbl.Rows[0][1])

	rec := f.j.last()
	assert.Equal(t, "parquet", rec.Op)
	assert.Equal(t, market.UM, rec.MarketSub)
	assert.Equal(t, 2, rec.Rows)
}

func TestLoadParquetCapitalizesOHLCV(t *testing.T) {
	f := newFixture(t)
	dir := market.Dataset{Source: "binance", Market: market.Spot, DataType: "kline"}.SymbolDir(f.root, "ETHUSDT")
	writeRows(t, dir, "ETHUSDT_kline_1d_20240101_20241231.parquet", []ohlcv{{Time: 1, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}})

	base := ParquetRequest{Source: "binance", Market: market.Spot, DataType: "kline", Symbol: "ETHUSDT"}
	_, err := f.l.LoadParquet(base)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	withDetail := base
	withDetail.Detail = "kline_1d"
	tbl, err := f.l.LoadParquet(withDetail)
	require.NoError(t, err)
	assert.Equal(t, []string{"open_time", "Open", "High", "Low", "Close", "Volume"}, tbl.Columns)
}

func TestLoadParquetAggTrades(t *testing.T) {
	f := newFixture(t)
	dir := market.Dataset{Source: "binance", Market: market.Spot, DataType: market.AggTrades}.SymbolDir(f.root, "BTCUSDT")
	t0 := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	writeRows(t, dir, "BTCUSDT_aggTrades_2025-01.parquet", []aggTrade{{ID: 3, Price: 3, Time: t0}, {ID: 4, Price: 4, Time: t0}})
	writeRows(t, dir, "BTCUSDT_aggTrades_2024-12.parquet", []aggTrade{{ID: 1, Price: 1, Time: t0}, {ID: 2, Price: 2, Time: t0, Maker: true}})

	req := ParquetRequest{Source: "binance", Market: market.Spot, DataType: market.AggTrades, Symbol: "BTCUSDT"}
	tbl, err := f.l.LoadParquet(req)
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())
	col := tbl.Index("agg_trade_id")
	require.GreaterOrEqual(t, col, 0)
	var ids []any
	for _, r := range tbl.Rows {
		ids = append(ids, r[col])
	}
	assert.Equal(t, []any{int64(1), int64(2), int64(3), int64(4)}, ids)
	assert.Equal(t, 2, f.j.last().Files)

	req.Years = []int{2025}
	tbl, err = f.l.LoadParquet(req)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	req.Years = []int{2023}
	_, err = f.l.LoadParquet(req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadParquetErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		req  ParquetRequest
		want error
	}{
		{"bad market", ParquetRequest{Source: "binance", Market: "x", DataType: market.Trades, Symbol: "BTCUSDT"}, ErrInvalidArgument},
		{"no symbol", ParquetRequest{Source: "binance", Market: market.Spot, DataType: market.Trades}, ErrInvalidArgument},
		{"path symbol", ParquetRequest{Source: "binance", Market: market.Spot, DataType: market.Trades, Symbol: "../BTCUSDT"}, ErrInvalidArgument},
		{"no data type", ParquetRequest{Source: "binance", Market: market.Spot, Symbol: "BTCUSDT"}, ErrInvalidArgument},
		{"missing dir", ParquetRequest{Source: "binance", Market: market.Spot, DataType: market.Trades, Symbol: "BTCUSDT"}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.l.LoadParquet(tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	dir := market.Dataset{Source: "binance", Market: market.Spot, DataType: market.Trades}.SymbolDir(f.root, "BTCUSDT")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	bad := filepath.Join(dir, "BTCUSDT_trades_20250101_20250102.parquet")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))

	_, err := f.l.LoadParquet(ParquetRequest{Source: "binance", Market: market.Spot, DataType: market.Trades, Symbol: "BTCUSDT"})
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, bad, le.Path)
}

func TestLoadFundingRate(t *testing.T) {
	f := newFixture(t)
	_, err := f.l.LoadFundingRate("binance", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = f.l.LoadFundingRate("binance", "a/b")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.l.LoadFundingRate("binance", "BTCUSDT")
	assert.ErrorIs(t, err, ErrNotFound)

	dir := filepath.Join(f.root, "binance", "future", "um", "fundingRate", "BTCUSDT")
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	writeRows(t, dir, "BTCUSDT_fundingRate_2024-01_2024-12.parquet", []funding{{Time: t0, Rate: 0.1}})
	writeRows(t, dir, "BTCUSDT_fundingRate_2025-01_2025-03-31.parquet", []funding{{Time: t0, Rate: 0.2}, {Time: t0.Add(8 * time.Hour), Rate: 0.3}})

	tbl, err := f.l.LoadFundingRate("binance", "BTCUSDT")
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.True(t, t0.Equal(tbl.Rows[0][0].(time.Time)))
	assert.Equal(t, 0.3, tbl.Rows[1][1])
	assert.Equal(t, "funding", f.j.last().Op)
}
