package loader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradedata/market"
)

const (
	parquetExt = ".parquet"
	allYears   = "all"
)

// CacheName identifies one cache entry:
// {symbol}_{timeframe}-{years}.{unix}.parquet
type CacheName struct {
	Symbol    string
	Timeframe market.Timeframe
	Years     string // sorted years joined with "_", or "all"
	Stamp     int64  // unix seconds of the write
}

// Key is the name without stamp and extension; entries with equal keys
// hold the same logical table.
func (c CacheName) Key() string {
	return fmt.Sprintf("%s_%s-%s", c.Symbol, c.Timeframe, c.Years)
}

func (c CacheName) String() string {
	return fmt.Sprintf("%s.%d%s", c.Key(), c.Stamp, parquetExt)
}

// Written returns the write time encoded in the name.
func (c CacheName) Written() time.Time {
	return time.Unix(c.Stamp, 0)
}

// YearsKey normalizes a year filter for cache naming: sorted, without
// duplicates, joined with "_". An empty filter is "all".
func YearsKey(years []int) string {
	if len(years) == 0 {
		return allYears
	}
	ys := slices.Clone(years)
	slices.Sort(ys)
	ys = slices.Compact(ys)
	parts := make([]string, len(ys))
	for i, y := range ys {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, "_")
}

// ParseCacheName splits a cache file name into its parts.
func ParseCacheName(name string) (CacheName, error) {
	base, ok := strings.CutSuffix(name, parquetExt)
	if !ok {
		return CacheName{}, invalid("cache name %q: not a parquet file", name)
	}

	dot := strings.LastIndexByte(base, '.')
	if dot < 0 {
		return CacheName{}, invalid("cache name %q: missing timestamp", name)
	}
	key, ts := base[:dot], base[dot+1:]
	if !isDigits(ts) {
		return CacheName{}, invalid("cache name %q: bad timestamp %q", name, ts)
	}
	stamp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return CacheName{}, invalid("cache name %q: %v", name, err)
	}

	dash := strings.LastIndexByte(key, '-')
	if dash < 0 {
		return CacheName{}, invalid("cache name %q: missing year set", name)
	}
	head, years := key[:dash], key[dash+1:]
	if !validYears(years) {
		return CacheName{}, invalid("cache name %q: bad year set %q", name, years)
	}

	us := strings.LastIndexByte(head, '_')
	if us <= 0 {
		return CacheName{}, invalid("cache name %q: missing symbol or timeframe", name)
	}
	tf, err := market.ParseTimeframe(head[us+1:])
	if err != nil {
		return CacheName{}, invalid("cache name %q: %v", name, err)
	}

	return CacheName{Symbol: head[:us], Timeframe: tf, Years: years, Stamp: stamp}, nil
}

// cacheStamp reads only the unix stamp of a cache file name, the digits
// between the last dot and the extension. The rest of the name may be
// anything.
func cacheStamp(name string) (int64, bool) {
	base, ok := strings.CutSuffix(name, parquetExt)
	if !ok {
		return 0, false
	}
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 || !isDigits(base[dot+1:]) {
		return 0, false
	}
	stamp, err := strconv.ParseInt(base[dot+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return stamp, true
}

func validYears(s string) bool {
	if s == allYears {
		return true
	}
	for _, y := range strings.Split(s, "_") {
		if len(y) != 4 || !isDigits(y) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
}

// ParseEndDate reads the end-date token of a dated file name such as
// BTCUSDT_metrics_20250101_20250115.parquet. The token is the last
// "_"-separated part and may be YYYYMMDD, YYYY-MM-DD or ISO 8601.
func ParseEndDate(name string) (time.Time, error) {
	parts := strings.Split(strings.TrimSuffix(name, parquetExt), "_")
	if len(parts) < 4 {
		return time.Time{}, invalid("file name %q: expected at least 4 parts", name)
	}
	tok := parts[len(parts)-1]

	switch len(tok) {
	case 8:
		if t, err := time.Parse("20060102", tok); err == nil {
			return t, nil
		}
	case 10:
		if t, err := time.Parse("2006-01-02", tok); err == nil {
			return t, nil
		}
	default:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, tok); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, invalid("file name %q: bad end date %q", name, tok)
}

// matchYears reports whether a kline file name carries one of the years as
// a "_{year}." or "_{year}-" token.
func matchYears(name string, years []int) bool {
	for _, y := range years {
		ys := strconv.Itoa(y)
		if strings.Contains(name, "_"+ys+".") || strings.Contains(name, "_"+ys+"-") {
			return true
		}
	}
	return false
}

// containsYear is the looser aggTrades filter: the year anywhere in the name.
func containsYear(name string, years []int) bool {
	for _, y := range years {
		if strings.Contains(name, strconv.Itoa(y)) {
			return true
		}
	}
	return false
}
