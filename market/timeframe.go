package market

import (
	"fmt"
	"time"
)

// Timeframe is a kline bucket interval as it appears in file names ("1m", "4h", ...).
type Timeframe string

const (
	M1  Timeframe = "1m"
	M3  Timeframe = "3m"
	M5  Timeframe = "5m"
	M15 Timeframe = "15m"
	M30 Timeframe = "30m"
	H1  Timeframe = "1h"
	H4  Timeframe = "4h"
	H8  Timeframe = "8h"
	H12 Timeframe = "12h"
	D1  Timeframe = "1d"
)

var timeframes = []struct {
	tf  Timeframe
	dur time.Duration
}{
	{M1, time.Minute},
	{M3, 3 * time.Minute},
	{M5, 5 * time.Minute},
	{M15, 15 * time.Minute},
	{M30, 30 * time.Minute},
	{H1, time.Hour},
	{H4, 4 * time.Hour},
	{H8, 8 * time.Hour},
	{H12, 12 * time.Hour},
	{D1, 24 * time.Hour},
}

// Timeframes returns the supported timeframes, shortest first.
func Timeframes() []Timeframe {
	out := make([]Timeframe, len(timeframes))
	for i, t := range timeframes {
		out[i] = t.tf
	}
	return out
}

// ParseTimeframe validates s against the supported set.
func ParseTimeframe(s string) (Timeframe, error) {
	for _, t := range timeframes {
		if string(t.tf) == s {
			return t.tf, nil
		}
	}
	return "", fmt.Errorf("unsupported timeframe %q (valid: %v)", s, Timeframes())
}

// Duration returns the bar width. Unknown timeframes report false.
func (tf Timeframe) Duration() (time.Duration, bool) {
	for _, t := range timeframes {
		if t.tf == tf {
			return t.dur, true
		}
	}
	return 0, false
}

func (tf Timeframe) String() string {
	return string(tf)
}
