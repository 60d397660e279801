package indicators

import "github.com/rustyeddy/tradedata/market"

// SMA windows written by AnnotateSMA.
const (
	Fast   = 7
	Medium = 25
	Slow   = 99
)

// AnnotateSMA adds 7, 25 and 99 bar trailing means of Close to klines that
// are grouped by symbol. Windows restart at every change of symbol and
// average whatever is available until full.
func AnnotateSMA(klines []market.Kline) []market.SMAKline {
	out := make([]market.SMAKline, 0, len(klines))
	for start := 0; start < len(klines); {
		end := start + 1
		for end < len(klines) && klines[end].Symbol == klines[start].Symbol {
			end++
		}
		block := klines[start:end]
		fast, medium, slow := RollingMA(block, Fast), RollingMA(block, Medium), RollingMA(block, Slow)
		for i, k := range block {
			out = append(out, market.SMAKline{Kline: k, MA7: fast[i], MA25: medium[i], MA99: slow[i]})
		}
		start = end
	}
	return out
}
