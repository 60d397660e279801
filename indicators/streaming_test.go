package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/tradedata/market"
)

func TestSimpleMAStreaming(t *testing.T) {
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	klines := []market.Kline{
		{Open: 100, High: 105, Low: 99, Close: 102, Time: baseTime, Qty: 1000},
		{Open: 102, High: 107, Low: 101, Close: 105, Time: baseTime.Add(time.Hour), Qty: 1100},
		{Open: 105, High: 108, Low: 104, Close: 106, Time: baseTime.Add(2 * time.Hour), Qty: 1200},
		{Open: 106, High: 110, Low: 105, Close: 108, Time: baseTime.Add(3 * time.Hour), Qty: 1300},
		{Open: 108, High: 112, Low: 107, Close: 110, Time: baseTime.Add(4 * time.Hour), Qty: 1400},
	}

	t.Run("partial then sliding window", func(t *testing.T) {
		ma := NewMA(3)
		assert.Equal(t, 0.0, ma.Partial())

		ma.Update(klines[0])
		assert.InDelta(t, 102.0, ma.Partial(), 0.001)

		ma.Update(klines[1])
		assert.InDelta(t, (102.0+105.0)/2, ma.Partial(), 0.001)

		// Third kline fills the window.
		ma.Update(klines[2])
		assert.InDelta(t, (102.0+105.0+106.0)/3, ma.Partial(), 0.001)

		// Fourth kline slides it.
		ma.Update(klines[3])
		assert.InDelta(t, (105.0+106.0+108.0)/3, ma.Partial(), 0.001)
	})

	t.Run("non-positive period", func(t *testing.T) {
		ma := NewMA(0)
		ma.Update(klines[0])
		ma.Update(klines[4])
		assert.InDelta(t, 110.0, ma.Partial(), 0.001)
	})
}
