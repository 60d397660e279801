package indicators

import "github.com/rustyeddy/tradedata/market"

// SimpleMA is a streaming Simple Moving Average of Close.
type SimpleMA struct {
	period int
	closes []float64
	sum    float64
}

// NewMA creates a new Simple Moving Average with the given period. Periods
// below one are treated as one.
func NewMA(period int) *SimpleMA {
	if period < 1 {
		period = 1
	}
	return &SimpleMA{
		period: period,
		closes: make([]float64, 0, period),
	}
}

// Update consumes the next kline.
func (m *SimpleMA) Update(k market.Kline) {
	if len(m.closes) == m.period {
		m.sum -= m.closes[0]
		copy(m.closes, m.closes[1:])
		m.closes = m.closes[:m.period-1]
	}
	m.closes = append(m.closes, k.Close)
	m.sum += k.Close
}

// Partial returns the mean of the closes seen so far, up to period of
// them. It is 0 before the first update.
func (m *SimpleMA) Partial() float64 {
	if len(m.closes) == 0 {
		return 0
	}
	return m.sum / float64(len(m.closes))
}
