package loader

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/tradedata/market"
	"github.com/rustyeddy/tradedata/store"
)

// CacheEntry is one parsed cache file.
type CacheEntry struct {
	CacheName
	Path string
}

// Cache is the per-symbol kline cache directory. Entries are never
// overwritten: every rebuild adds a new stamped file and the janitor
// removes files older than the retention.
type Cache struct {
	dir       string
	retention time.Duration
	log       *slog.Logger
}

func newCache(dir string, retention time.Duration, log *slog.Logger) *Cache {
	return &Cache{dir: dir, retention: retention, log: log}
}

func (c *Cache) Dir() string { return c.dir }

func (c *Cache) ensure() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return &LoadError{Path: c.dir, Err: err}
	}
	return nil
}

// Entries lists the parseable cache files in name order. Files with a
// malformed name are logged and skipped.
func (c *Cache) Entries() ([]CacheEntry, error) {
	des, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &LoadError{Path: c.dir, Err: err}
	}

	var out []CacheEntry
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), parquetExt) {
			continue
		}
		name, err := ParseCacheName(de.Name())
		if err != nil {
			c.log.Warn("skipping cache file", "file", de.Name(), "err", err)
			continue
		}
		out = append(out, CacheEntry{CacheName: name, Path: filepath.Join(c.dir, de.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Sweep deletes cache files stamped before now minus the retention and
// returns their paths. Only the stamp is read, so stale files are removed
// whatever their key. Files without a stamp are left alone.
func (c *Cache) Sweep(now time.Time) ([]string, error) {
	des, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &LoadError{Path: c.dir, Err: err}
	}
	cutoff := now.Add(-c.retention)

	var removed []string
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		stamp, ok := cacheStamp(de.Name())
		if !ok {
			continue
		}
		written := time.Unix(stamp, 0)
		if !written.Before(cutoff) {
			continue
		}
		path := filepath.Join(c.dir, de.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, &LoadError{Path: path, Err: err}
		}
		c.log.Debug("removed stale cache file", "file", de.Name(), "written", written)
		removed = append(removed, path)
	}
	return removed, nil
}

// Latest maps each cache key to the path of its lexicographically
// greatest file.
func (c *Cache) Latest() (map[string]string, error) {
	entries, err := c.Entries()
	if err != nil {
		return nil, err
	}
	latest := make(map[string]string, len(entries))
	for _, e := range entries {
		k := e.Key()
		if cur, ok := latest[k]; !ok || e.Path > cur {
			latest[k] = e.Path
		}
	}
	return latest, nil
}

// Read loads one cache entry.
func (c *Cache) Read(path, symbol string) ([]market.Kline, error) {
	ks, err := store.ReadKlines(path, symbol)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ks, nil
}

// Store writes klines as a new entry and returns its path.
func (c *Cache) Store(name CacheName, klines []market.Kline) (string, error) {
	path := filepath.Join(c.dir, name.String())
	if err := store.WriteKlines(path, klines); err != nil {
		return "", &LoadError{Path: path, Err: err}
	}
	c.log.Info("wrote cache file", "file", name.String(), "rows", len(klines))
	return path, nil
}
