// Package loader resolves dataset files under a data root and loads them,
// keeping a per-symbol cache of joined kline series.
package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rustyeddy/tradedata/journal"
	"github.com/rustyeddy/tradedata/market"
	"github.com/rustyeddy/tradedata/pkg/id"
	"github.com/rustyeddy/tradedata/store"
	"github.com/rustyeddy/tradedata/table"
)

const (
	DefaultCacheDir  = "_cache"
	DefaultRetention = 24 * time.Hour
)

// Loader loads datasets rooted at one directory. It holds no open files and
// no in-memory cache, so one value may be reused for the life of a process.
type Loader struct {
	root      string
	cacheDir  string
	retention time.Duration
	log       *slog.Logger
	journal   journal.Journal
	now       func() time.Time
}

type Option func(*Loader)

// WithCacheDir sets the cache directory name below the kline root.
func WithCacheDir(name string) Option {
	return func(l *Loader) {
		if name != "" {
			l.cacheDir = name
		}
	}
}

// WithRetention sets how long cache entries live.
func WithRetention(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.retention = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

func WithJournal(j journal.Journal) Option {
	return func(l *Loader) {
		if j != nil {
			l.journal = j
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

func New(root string, opts ...Option) *Loader {
	l := &Loader{
		root:      root,
		cacheDir:  DefaultCacheDir,
		retention: DefaultRetention,
		log:       slog.New(slog.DiscardHandler),
		journal:   journal.Nop{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// ParquetRequest selects one dataset file (or file set) of one symbol.
type ParquetRequest struct {
	Source    string
	Market    string
	MarketSub string
	DataType  string
	Symbol    string
	Detail    string // file infix for generic data types, e.g. "kline_1m"
	Years     []int  // aggTrades only
}

func (r ParquetRequest) dataset() market.Dataset {
	return market.Dataset{Source: r.Source, Market: r.Market, MarketSub: r.MarketSub, DataType: r.DataType}
}

// LoadParquet loads the files of one symbol. aggTrades files are
// concatenated; every other data type loads only the file with the latest
// end date.
func (l *Loader) LoadParquet(req ParquetRequest) (*table.Table, error) {
	start := l.now()
	ds := req.dataset()
	if err := ds.Validate(); err != nil {
		return nil, invalid("%v", err)
	}
	if err := checkSymbol(req.Symbol); err != nil {
		return nil, err
	}

	dir := ds.SymbolDir(l.root, req.Symbol)
	if !isDir(dir) {
		return nil, notFound("directory not found: %s", dir)
	}

	if req.DataType == market.AggTrades {
		files, err := aggTradeFiles(dir, req.Symbol, req.Years)
		if err != nil {
			return nil, err
		}
		parts := make([]*table.Table, 0, len(files))
		for _, f := range files {
			t, err := l.readTable(f)
			if err != nil {
				return nil, err
			}
			parts = append(parts, t)
		}
		out := table.Concat(parts...)
		l.record(journal.LoadRecord{
			Op: "parquet", Symbols: []string{req.Symbol}, Years: req.Years,
			Files: len(files), Rows: out.Len(),
		}, ds, start)
		return out, nil
	}

	pattern, err := latestPattern(req)
	if err != nil {
		return nil, err
	}
	out, err := l.loadLatest(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	l.record(journal.LoadRecord{
		Op: "parquet", Symbols: []string{req.Symbol}, Files: 1, Rows: out.Len(),
	}, ds, start)
	return out, nil
}

// LoadFundingRate loads the latest USD-margined funding rate file of a symbol.
func (l *Loader) LoadFundingRate(source, symbol string) (*table.Table, error) {
	start := l.now()
	if source == "" {
		return nil, invalid("source is required")
	}
	if err := checkSymbol(symbol); err != nil {
		return nil, err
	}

	ds := market.Dataset{Source: source, Market: market.Future, MarketSub: market.UM, DataType: market.FundingRate}
	dir := ds.SymbolDir(l.root, symbol)
	if !isDir(dir) {
		return nil, notFound("directory not found: %s", dir)
	}

	pattern := filepath.Join(dir, symbol+"_"+market.FundingRate+"_*_*"+parquetExt)
	out, err := l.loadLatest(pattern)
	if err != nil {
		return nil, err
	}
	l.record(journal.LoadRecord{
		Op: "funding", Symbols: []string{symbol}, Files: 1, Rows: out.Len(),
	}, ds, start)
	return out, nil
}

func (l *Loader) loadLatest(pattern string) (*table.Table, error) {
	path, err := LatestFile(pattern)
	if err != nil {
		return nil, err
	}
	t, err := l.readTable(path)
	if err != nil {
		return nil, err
	}
	t.CapitalizeOHLCV()
	return t, nil
}

func (l *Loader) readTable(path string) (*table.Table, error) {
	l.log.Debug("reading file", "file", path)
	t, err := store.ReadTable(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// KlineSymbols lists the symbols with a directory under the kline root.
func (l *Loader) KlineSymbols(source, mkt, marketSub string) ([]string, error) {
	ds := klineDataset(source, mkt, marketSub)
	if err := ds.Validate(); err != nil {
		return nil, invalid("%v", err)
	}

	root := ds.Dir(l.root)
	des, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound("kline root not found: %s", root)
		}
		return nil, &LoadError{Path: root, Err: err}
	}

	var syms []string
	for _, de := range des {
		if de.IsDir() && de.Name() != l.cacheDir {
			syms = append(syms, de.Name())
		}
	}
	sort.Strings(syms)
	return syms, nil
}

// SweepCache runs the cache janitor for a kline root and returns the
// removed paths.
func (l *Loader) SweepCache(source, mkt, marketSub string) ([]string, error) {
	c, err := l.cache(source, mkt, marketSub)
	if err != nil {
		return nil, err
	}
	return c.Sweep(l.now())
}

// CacheEntries lists the cache files of a kline root.
func (l *Loader) CacheEntries(source, mkt, marketSub string) ([]CacheEntry, error) {
	c, err := l.cache(source, mkt, marketSub)
	if err != nil {
		return nil, err
	}
	return c.Entries()
}

// CacheDir returns the cache directory of a kline root.
func (l *Loader) CacheDir(source, mkt, marketSub string) (string, error) {
	c, err := l.cache(source, mkt, marketSub)
	if err != nil {
		return "", err
	}
	return c.Dir(), nil
}

func (l *Loader) cache(source, mkt, marketSub string) (*Cache, error) {
	ds := klineDataset(source, mkt, marketSub)
	if err := ds.Validate(); err != nil {
		return nil, invalid("%v", err)
	}
	return newCache(filepath.Join(ds.Dir(l.root), l.cacheDir), l.retention, l.log), nil
}

func klineDataset(source, mkt, marketSub string) market.Dataset {
	return market.Dataset{Source: source, Market: mkt, MarketSub: marketSub, DataType: market.AggKline}
}

// record writes a journal entry. Journal failures never fail the load.
func (l *Loader) record(r journal.LoadRecord, ds market.Dataset, start time.Time) {
	now := l.now()
	r.ID = id.At(now)
	r.Time = now
	r.Source = ds.Source
	r.Market = ds.Market
	if ds.Market == market.Future {
		r.MarketSub = ds.MarketSub
	}
	r.DataType = ds.DataType
	r.Elapsed = now.Sub(start)
	if err := l.journal.RecordLoad(r); err != nil {
		l.log.Warn("journal write failed", "op", r.Op, "err", err)
	}
}
