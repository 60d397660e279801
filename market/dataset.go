package market

import (
	"fmt"
	"path/filepath"
)

const (
	Binance = "binance"

	Spot   = "spot"
	Future = "future"

	// USD-margined and coin-margined futures.
	UM = "um"
	CM = "cm"
)

// Data types with a special file layout.
const (
	AggTrades   = "aggTrades"
	AggKline    = "aggTrades_kline"
	Trades      = "trades"
	Metrics     = "metrics"
	Depth       = "depth"
	FundingRate = "fundingRate"
)

// Dataset describes one family of files under the data root.
type Dataset struct {
	Source    string // "binance"
	Market    string // Spot or Future
	MarketSub string // UM or CM, futures only
	DataType  string // "aggTrades", "kline", ...
}

// Validate checks the market fields. DataType is free-form.
func (d Dataset) Validate() error {
	if d.Source == "" {
		return fmt.Errorf("source is required")
	}
	switch d.Market {
	case Spot:
	case Future:
		if d.MarketSub != UM && d.MarketSub != CM {
			return fmt.Errorf("unsupported market_sub %q (valid: um, cm)", d.MarketSub)
		}
	default:
		return fmt.Errorf("unsupported market %q (valid: spot, future)", d.Market)
	}
	if d.DataType == "" {
		return fmt.Errorf("data_type is required")
	}
	return nil
}

// Dir returns {root}/{source}/{market}/[{market_sub}/]{data_type}.
func (d Dataset) Dir(root string) string {
	if d.Market == Spot {
		return filepath.Join(root, d.Source, d.Market, d.DataType)
	}
	return filepath.Join(root, d.Source, d.Market, d.MarketSub, d.DataType)
}

// SymbolDir returns the per-symbol directory below Dir.
func (d Dataset) SymbolDir(root, symbol string) string {
	return filepath.Join(d.Dir(root), symbol)
}
