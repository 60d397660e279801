package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"load_id", "time", "op", "source", "market", "market_sub", "data_type", "timeframe",
	"symbols", "years", "cache_hit", "files", "rows", "elapsed_ms",
}

// CSV appends load records to a CSV file, writing the header when the file is new.
type CSV struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSV, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			_ = f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordLoad(r LoadRecord) error {
	err := j.w.Write([]string{
		r.ID,
		r.Time.UTC().Format(time.RFC3339Nano),
		r.Op,
		r.Source,
		r.Market,
		r.MarketSub,
		r.DataType,
		r.Timeframe,
		strings.Join(r.Symbols, ","),
		joinYears(r.Years),
		strconv.FormatBool(r.CacheHit),
		strconv.Itoa(r.Files),
		strconv.Itoa(r.Rows),
		strconv.FormatInt(r.Elapsed.Milliseconds(), 10),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		_ = j.f.Close()
		return err
	}
	return j.f.Close()
}
