package market

import (
	"strings"
	"time"
)

// Kline is one time bucket of aggregated trades for a symbol.
//
// Field tags match the column names of the source parquet files, so the same
// struct is used to write cache entries.
type Kline struct {
	Symbol         string    `parquet:"symbol"`
	Time           time.Time `parquet:"time,timestamp(nanosecond)"`
	Open           float64   `parquet:"Open"`
	High           float64   `parquet:"High"`
	Low            float64   `parquet:"Low"`
	Close          float64   `parquet:"Close"`
	Qty            float64   `parquet:"qty"`
	QtyUSD         float64   `parquet:"qty_usd"`
	BuyerQty       float64   `parquet:"buyer_qty"`
	SellerQty      float64   `parquet:"seller_qty"`
	AvgPrice       float64   `parquet:"avg_price"`
	BuyerAvgPrice  float64   `parquet:"buyer_avg_price"`
	SellerAvgPrice float64   `parquet:"seller_avg_price"`
}

// KlineColumns lists the kline columns in file order.
var KlineColumns = []string{
	"symbol", "time", "Open", "High", "Low", "Close",
	"qty", "qty_usd", "buyer_qty", "seller_qty",
	"avg_price", "buyer_avg_price", "seller_avg_price",
}

// Values returns the fields in KlineColumns order.
func (k Kline) Values() []any {
	return []any{
		k.Symbol, k.Time, k.Open, k.High, k.Low, k.Close,
		k.Qty, k.QtyUSD, k.BuyerQty, k.SellerQty,
		k.AvgPrice, k.BuyerAvgPrice, k.SellerAvgPrice,
	}
}

// SMAKline is a Kline annotated with its 7, 25 and 99 bar moving averages.
type SMAKline struct {
	Kline
	MA7  float64
	MA25 float64
	MA99 float64
}

// SMAColumns is KlineColumns plus the moving average columns.
var SMAColumns = append(append([]string{}, KlineColumns...), "ma7", "ma25", "ma99")

func (k SMAKline) Values() []any {
	return append(k.Kline.Values(), k.MA7, k.MA25, k.MA99)
}

// Compare orders klines by symbol, then time, for slices.SortStableFunc.
func Compare(a, b Kline) int {
	if n := strings.Compare(a.Symbol, b.Symbol); n != 0 {
		return n
	}
	return a.Time.Compare(b.Time)
}
