package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rustyeddy/tradedata/market"
)

// LatestFile returns the file matching pattern with the greatest end date.
// Names without a parseable end date are ignored; on equal dates the first
// name in lexicographic order wins.
func LatestFile(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", invalid("pattern %s: %v", pattern, err)
	}
	if len(matches) == 0 {
		return "", notFound("no files found matching pattern: %s", pattern)
	}
	sort.Strings(matches)

	var (
		latest    string
		latestEnd time.Time
	)
	for _, m := range matches {
		end, err := ParseEndDate(filepath.Base(m))
		if err != nil {
			continue
		}
		if latest == "" || end.After(latestEnd) {
			latest, latestEnd = m, end
		}
	}
	if latest == "" {
		return "", notFound("could not find valid data files in: %s", pattern)
	}
	return latest, nil
}

// latestPattern returns the glob, relative to the symbol directory, of the
// dated files for a non-aggTrades data type.
func latestPattern(req ParquetRequest) (string, error) {
	switch req.DataType {
	case market.Depth:
		return fmt.Sprintf("%s_%s_%s_*_*%s", req.Symbol, req.Source, req.Market, parquetExt), nil
	case market.Trades, market.Metrics:
		return fmt.Sprintf("%s_%s_*_*%s", req.Symbol, req.DataType, parquetExt), nil
	default:
		if req.Detail == "" {
			return "", invalid("detail is required for data type %q", req.DataType)
		}
		return fmt.Sprintf("%s_%s_*_*%s", req.Symbol, req.Detail, parquetExt), nil
	}
}

// aggTradeFiles returns every aggTrades file of a symbol, optionally
// narrowed to years, in lexicographic order.
func aggTradeFiles(dir, symbol string, years []int) ([]string, error) {
	pattern := filepath.Join(dir, fmt.Sprintf("%s_%s_*%s", symbol, market.AggTrades, parquetExt))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, invalid("pattern %s: %v", pattern, err)
	}
	if len(matches) == 0 {
		return nil, notFound("no files found matching pattern: %s", pattern)
	}

	if len(years) > 0 {
		var kept []string
		for _, m := range matches {
			if containsYear(filepath.Base(m), years) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			return nil, notFound("no files found for years %v in: %s", years, dir)
		}
		matches = kept
	}

	sort.Strings(matches)
	return matches, nil
}

// klineFiles returns the kline files of one symbol and timeframe, optionally
// narrowed to years, in lexicographic order.
func klineFiles(root, symbol string, tf market.Timeframe, years []int) ([]string, error) {
	dir := filepath.Join(root, symbol)
	if !isDir(dir) {
		return nil, notFound("symbol directory not found: %s", dir)
	}

	pattern := filepath.Join(dir, fmt.Sprintf("%s_kline_%s_*%s", symbol, tf, parquetExt))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, invalid("pattern %s: %v", pattern, err)
	}
	if len(matches) == 0 {
		return nil, notFound("no files found for %s with timeframe %s", symbol, tf)
	}

	if len(years) > 0 {
		var kept []string
		for _, m := range matches {
			if matchYears(filepath.Base(m), years) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			return nil, notFound("no files found for %s with years %v", symbol, years)
		}
		matches = kept
	}

	sort.Strings(matches)
	return matches, nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
