package journal

import (
	"database/sql"
	"fmt"
	"time"
)

const loadColumns = `load_id, time, op, source, market, market_sub, data_type, timeframe, symbols, years, cache_hit, files, rows, elapsed_ms`

type scanner interface {
	Scan(dest ...any) error
}

func scanLoad(s scanner) (LoadRecord, error) {
	var (
		rec       LoadRecord
		symbols   string
		years     string
		elapsedMS int64
	)
	err := s.Scan(
		&rec.ID,
		&rec.Time,
		&rec.Op,
		&rec.Source,
		&rec.Market,
		&rec.MarketSub,
		&rec.DataType,
		&rec.Timeframe,
		&symbols,
		&years,
		&rec.CacheHit,
		&rec.Files,
		&rec.Rows,
		&elapsedMS,
	)
	if err != nil {
		return LoadRecord{}, err
	}
	rec.Symbols = splitSymbols(symbols)
	if rec.Years, err = splitYears(years); err != nil {
		return LoadRecord{}, fmt.Errorf("years %q: %w", years, err)
	}
	rec.Elapsed = millis(elapsedMS)
	return rec, nil
}

// GetLoad returns a single load record by ID.
func (j *SQLite) GetLoad(id string) (LoadRecord, error) {
	row := j.db.QueryRow(`SELECT `+loadColumns+` FROM loads WHERE load_id = ?`, id)
	rec, err := scanLoad(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return LoadRecord{}, fmt.Errorf("load %q not found", id)
		}
		return LoadRecord{}, err
	}
	return rec, nil
}

// ListLoadsBetween returns loads whose time is within [start, end), oldest first.
func (j *SQLite) ListLoadsBetween(start, end time.Time) ([]LoadRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+loadColumns+`
		FROM loads
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, load_id ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoadRecord
	for rows.Next() {
		rec, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CacheHitRate returns the share of kline loads in [start, end) served from cache.
func (j *SQLite) CacheHitRate(start, end time.Time) (float64, error) {
	var total, hits sql.NullInt64
	err := j.db.QueryRow(`
		SELECT COUNT(*), SUM(cache_hit)
		FROM loads
		WHERE op = 'kline' AND time >= ? AND time < ?`, start.UTC(), end.UTC()).Scan(&total, &hits)
	if err != nil {
		return 0, err
	}
	if total.Int64 == 0 {
		return 0, nil
	}
	return float64(hits.Int64) / float64(total.Int64), nil
}
