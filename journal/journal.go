// Package journal keeps a record of every dataset load.
package journal

import (
	"fmt"
	"time"
)

// LoadRecord describes one completed load call.
type LoadRecord struct {
	ID        string
	Time      time.Time
	Op        string // "kline", "parquet", "funding", "symbols"
	Source    string
	Market    string
	MarketSub string
	DataType  string
	Timeframe string
	Symbols   []string
	Years     []int
	CacheHit  bool
	Files     int
	Rows      int
	Elapsed   time.Duration
}

type Journal interface {
	RecordLoad(LoadRecord) error
	Close() error
}

// Nop discards records.
type Nop struct{}

func (Nop) RecordLoad(LoadRecord) error { return nil }
func (Nop) Close() error                { return nil }

// Open returns the journal for kind: "none" or "", "csv" or "sqlite".
func Open(kind, path string) (Journal, error) {
	switch kind {
	case "", "none":
		return Nop{}, nil
	case "csv":
		return NewCSV(path)
	case "sqlite":
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown journal type %q", kind)
	}
}
