package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradedata/market"
)

func createTestKlines(symbol string, closes ...float64) []market.Kline {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Kline, len(closes))
	for i, c := range closes {
		out[i] = market.Kline{Symbol: symbol, Time: base.Add(time.Duration(i) * time.Minute), Close: c}
	}
	return out
}

func TestRollingMA(t *testing.T) {
	klines := createTestKlines("BTCUSDT", 10, 20, 30, 40)

	assert.InDeltaSlice(t, []float64{10, 15, 25, 35}, RollingMA(klines, 2), 1e-9)
	assert.InDeltaSlice(t, []float64{10, 20, 30, 40}, RollingMA(klines, -1), 1e-9)
	assert.Empty(t, RollingMA(nil, 3))
}

func TestAnnotateSMA(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, AnnotateSMA(nil))
	})

	t.Run("minimum periods of one", func(t *testing.T) {
		out := AnnotateSMA(createTestKlines("BTCUSDT", 1, 2, 3))
		require.Len(t, out, 3)
		assert.InDelta(t, 1.0, out[0].MA7, 1e-9)
		assert.InDelta(t, 1.5, out[1].MA7, 1e-9)
		assert.InDelta(t, 2.0, out[2].MA7, 1e-9)
		assert.InDelta(t, 2.0, out[2].MA25, 1e-9)
		assert.InDelta(t, 2.0, out[2].MA99, 1e-9)
	})

	t.Run("full windows", func(t *testing.T) {
		closes := make([]float64, 120)
		for i := range closes {
			closes[i] = float64(i + 1)
		}
		out := AnnotateSMA(createTestKlines("BTCUSDT", closes...))
		last := out[len(out)-1]
		// Means of 114..120, 96..120 and 22..120.
		assert.InDelta(t, 117.0, last.MA7, 1e-6)
		assert.InDelta(t, 108.0, last.MA25, 1e-6)
		assert.InDelta(t, 71.0, last.MA99, 1e-6)
		assert.Equal(t, 120.0, last.Close)
	})

	t.Run("windows reset per symbol", func(t *testing.T) {
		klines := append(createTestKlines("BTCUSDT", 100, 200), createTestKlines("ETHUSDT", 10, 20)...)
		out := AnnotateSMA(klines)
		require.Len(t, out, 4)
		assert.InDelta(t, 150.0, out[1].MA7, 1e-9)
		assert.InDelta(t, 10.0, out[2].MA7, 1e-9)
		assert.InDelta(t, 15.0, out[3].MA99, 1e-9)
		assert.Equal(t, "ETHUSDT", out[3].Symbol)
	})
}
