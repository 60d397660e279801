package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rustyeddy/tradedata/market"
	"github.com/rustyeddy/tradedata/table"
)

// ReadKlines reads a kline parquet file. symbol fills the Symbol field
// when the file carries no symbol column.
func ReadKlines(path, symbol string) ([]market.Kline, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return KlinesFromTable(t, symbol)
}

// WriteKlines writes klines in the cache file layout.
func WriteKlines(path string, klines []market.Kline) error {
	return Write(path, klines)
}

// KlinesFromTable projects a table onto klines by column name. Price
// columns match case-insensitively; missing numeric columns read as zero.
func KlinesFromTable(t *table.Table, symbol string) ([]market.Kline, error) {
	ti := t.Index("time")
	if ti < 0 {
		return nil, fmt.Errorf("kline table has no time column")
	}
	si := t.Index("symbol")
	if si < 0 && symbol == "" {
		return nil, fmt.Errorf("kline table has no symbol column")
	}

	idx := func(name string) int { return t.IndexFold(name) }
	var (
		open, high, low, cls = idx("Open"), idx("High"), idx("Low"), idx("Close")
		qty, qtyUSD          = t.Index("qty"), t.Index("qty_usd")
		buyQty, sellQty      = t.Index("buyer_qty"), t.Index("seller_qty")
		avg, buyAvg, sellAvg = t.Index("avg_price"), t.Index("buyer_avg_price"), t.Index("seller_avg_price")
	)

	out := make([]market.Kline, len(t.Rows))
	for n, r := range t.Rows {
		ts, err := toTime(r[ti])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		k := market.Kline{Symbol: symbol, Time: ts}
		if si >= 0 {
			s, ok := r[si].(string)
			if !ok {
				return nil, fmt.Errorf("row %d: symbol is %T", n, r[si])
			}
			k.Symbol = s
		}

		fields := []struct {
			col int
			dst *float64
		}{
			{open, &k.Open}, {high, &k.High}, {low, &k.Low}, {cls, &k.Close},
			{qty, &k.Qty}, {qtyUSD, &k.QtyUSD},
			{buyQty, &k.BuyerQty}, {sellQty, &k.SellerQty},
			{avg, &k.AvgPrice}, {buyAvg, &k.BuyerAvgPrice}, {sellAvg, &k.SellerAvgPrice},
		}
		for _, f := range fields {
			if f.col < 0 {
				continue
			}
			v, err := toFloat(r[f.col])
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", n, t.Columns[f.col], err)
			}
			*f.dst = v
		}
		out[n] = k
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

// toTime accepts timestamps and epoch milliseconds, as found in raw exchange dumps.
func toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case int64:
		return time.UnixMilli(x).UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, x)
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
	}
}
