// Package indicators provides moving averages over kline series.
package indicators

import "github.com/rustyeddy/tradedata/market"

// RollingMA returns the trailing mean of Close at every index. Leading
// entries average the klines available so far.
func RollingMA(klines []market.Kline, period int) []float64 {
	ma := NewMA(period)
	out := make([]float64, len(klines))
	for i, k := range klines {
		ma.Update(k)
		out[i] = ma.Partial()
	}
	return out
}
