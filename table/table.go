// Package table holds loosely typed, column-named rows read from parquet files.
package table

import (
	"fmt"
	"slices"
	"strings"
)

// Row is one record; values line up with Table.Columns.
type Row []any

// Table is an ordered set of named columns and the rows that fill them.
// Values are string, int64, float64, bool, time.Time or nil.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// IndexFold is Index with case-insensitive matching.
func (t *Table) IndexFold(name string) int {
	if i := t.Index(name); i >= 0 {
		return i
	}
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Append adds a row. It must have one value per column.
func (t *Table) Append(r Row) error {
	if len(r) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(r), len(t.Columns))
	}
	t.Rows = append(t.Rows, r)
	return nil
}

// Rename renames columns in place. Unknown names are ignored.
func (t *Table) Rename(names map[string]string) {
	for i, c := range t.Columns {
		if to, ok := names[c]; ok {
			t.Columns[i] = to
		}
	}
}

var ohlcv = []string{"Open", "High", "Low", "Close", "Volume"}

// CapitalizeOHLCV renames open/high/low/close/volume columns, in any case,
// to their capitalized form.
func (t *Table) CapitalizeOHLCV() {
	names := map[string]string{}
	for _, c := range t.Columns {
		for _, want := range ohlcv {
			if strings.EqualFold(c, want) {
				names[c] = want
			}
		}
	}
	t.Rename(names)
}

// Concat stacks tables vertically. Columns are the union in first-seen
// order; a table lacking a column contributes nil for it. Rows are copied,
// so the result shares no storage with its inputs.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	pos := map[string]int{}
	total := 0
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := pos[c]; !ok {
				pos[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
		total += len(t.Rows)
	}

	out.Rows = make([]Row, 0, total)
	for _, t := range tables {
		if t == nil {
			continue
		}
		same := slices.Equal(t.Columns, out.Columns)
		for _, r := range t.Rows {
			if same {
				out.Rows = append(out.Rows, slices.Clone(r))
				continue
			}
			nr := make(Row, len(out.Columns))
			for i, c := range t.Columns {
				nr[pos[c]] = r[i]
			}
			out.Rows = append(out.Rows, nr)
		}
	}
	return out
}

// Head returns a view of at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n >= len(t.Rows) {
		return t
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}
