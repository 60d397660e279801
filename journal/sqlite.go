package journal

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordLoad(r LoadRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO loads
		(load_id, time, op, source, market, market_sub, data_type, timeframe, symbols, years, cache_hit, files, rows, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Time.UTC(), r.Op, r.Source, r.Market, r.MarketSub, r.DataType, r.Timeframe,
		strings.Join(r.Symbols, ","), joinYears(r.Years), r.CacheHit, r.Files, r.Rows,
		r.Elapsed.Milliseconds(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

func splitYears(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, p := range strings.Split(s, ",") {
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, nil
}

func splitSymbols(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
