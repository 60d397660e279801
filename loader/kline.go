package loader

import (
	"errors"
	"slices"
	"time"

	"github.com/rustyeddy/tradedata/indicators"
	"github.com/rustyeddy/tradedata/journal"
	"github.com/rustyeddy/tradedata/market"
)

// KlineRequest selects kline series of one timeframe for a set of symbols.
type KlineRequest struct {
	Source    string
	Market    string
	MarketSub string
	Timeframe string
	Years     []int // empty means all years
	Symbols   []string
}

func (r KlineRequest) validate() (market.Dataset, market.Timeframe, error) {
	tf, err := market.ParseTimeframe(r.Timeframe)
	if err != nil {
		return market.Dataset{}, "", invalid("%v", err)
	}
	if len(r.Symbols) == 0 {
		return market.Dataset{}, "", invalid("at least one symbol is required")
	}
	for _, s := range r.Symbols {
		if err := checkSymbol(s); err != nil {
			return market.Dataset{}, "", err
		}
	}
	for _, y := range r.Years {
		if y < 1000 || y > 9999 {
			return market.Dataset{}, "", invalid("year %d out of range", y)
		}
	}
	ds := klineDataset(r.Source, r.Market, r.MarketSub)
	if err := ds.Validate(); err != nil {
		return market.Dataset{}, "", invalid("%v", err)
	}
	return ds, tf, nil
}

// LoadKline returns the kline series of every requested symbol, sorted by
// symbol then time. The cache is used only when every symbol has an entry
// for the same timeframe and years; otherwise every symbol is rebuilt from
// the source files and written back as new entries. Symbols without data
// are skipped with a warning.
func (l *Loader) LoadKline(req KlineRequest) ([]market.Kline, error) {
	ds, tf, err := req.validate()
	if err != nil {
		return nil, err
	}
	start := l.now()

	root := ds.Dir(l.root)
	if !isDir(root) {
		return nil, notFound("kline root not found: %s", root)
	}

	c, err := l.cache(req.Source, req.Market, req.MarketSub)
	if err != nil {
		return nil, err
	}
	if err := c.ensure(); err != nil {
		return nil, err
	}
	if removed, err := c.Sweep(start); err != nil {
		l.log.Warn("cache sweep failed", "err", err)
	} else if len(removed) > 0 {
		l.log.Info("swept cache", "removed", len(removed))
	}

	years := YearsKey(req.Years)
	symbols := slices.Clone(req.Symbols)

	out, files, hit, err := l.fromCache(c, symbols, tf, years)
	if err != nil {
		return nil, err
	}
	if !hit {
		out, files, err = l.rebuild(c, root, symbols, tf, req.Years, years, start)
		if err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(out, market.Compare)

	l.log.Info("loaded klines",
		"timeframe", tf, "symbols", len(symbols), "years", years,
		"cache_hit", hit, "files", files, "rows", len(out))
	l.record(journal.LoadRecord{
		Op: "kline", Timeframe: tf.String(), Symbols: symbols, Years: req.Years,
		CacheHit: hit, Files: files, Rows: len(out),
	}, ds, start)
	return out, nil
}

// fromCache reads every symbol from the cache. hit is false when any
// symbol has no entry, in which case nothing is read.
func (l *Loader) fromCache(c *Cache, symbols []string, tf market.Timeframe, years string) ([]market.Kline, int, bool, error) {
	latest, err := c.Latest()
	if err != nil {
		return nil, 0, false, err
	}

	paths := make([]string, len(symbols))
	for i, s := range symbols {
		key := CacheName{Symbol: s, Timeframe: tf, Years: years}.Key()
		p, ok := latest[key]
		if !ok {
			l.log.Debug("cache miss", "symbol", s, "key", key)
			return nil, 0, false, nil
		}
		paths[i] = p
	}

	var out []market.Kline
	for i, p := range paths {
		l.log.Debug("reading cache file", "file", p)
		ks, err := c.Read(p, symbols[i])
		if err != nil {
			return nil, 0, false, err
		}
		out = append(out, ks...)
	}
	l.log.Info("cache hit", "symbols", len(symbols), "timeframe", tf, "years", years)
	return out, len(paths), true, nil
}

// rebuild reloads every symbol from the source files and writes one cache
// entry per symbol, all stamped with now.
func (l *Loader) rebuild(c *Cache, root string, symbols []string, tf market.Timeframe, years []int, yearsKey string, now time.Time) ([]market.Kline, int, error) {
	var (
		out   []market.Kline
		files int
		used  int
	)
	for _, sym := range symbols {
		paths, err := klineFiles(root, sym, tf, years)
		if errors.Is(err, ErrNotFound) {
			l.log.Warn("skipping symbol", "symbol", sym, "reason", err)
			continue
		}
		if err != nil {
			return nil, 0, err
		}

		var ks []market.Kline
		for _, p := range paths {
			l.log.Debug("reading file", "file", p)
			part, err := c.Read(p, sym)
			if err != nil {
				return nil, 0, err
			}
			ks = append(ks, part...)
		}

		name := CacheName{Symbol: sym, Timeframe: tf, Years: yearsKey, Stamp: now.Unix()}
		if _, err := c.Store(name, ks); err != nil {
			return nil, 0, err
		}

		out = append(out, ks...)
		files += len(paths)
		used++
	}

	if used == 0 {
		return nil, 0, notFound("no data found for symbols %v with timeframe %s", symbols, tf)
	}
	return out, files, nil
}

// LoadTickerSetSMA loads klines and annotates them with 7, 25 and 99 bar
// simple moving averages of Close.
func (l *Loader) LoadTickerSetSMA(req KlineRequest) ([]market.SMAKline, error) {
	ks, err := l.LoadKline(req)
	if err != nil {
		return nil, err
	}
	return indicators.AnnotateSMA(ks), nil
}
