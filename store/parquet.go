// Package store reads and writes the parquet files under the data root.
package store

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/rustyeddy/tradedata/table"
)

const readBatch = 1024

type column struct {
	name    string
	convert func(parquet.Value) any
}

// ReadTable reads every top-level column of a parquet file into a table.
// Nested columns and pandas index columns are skipped.
func ReadTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	schema := pf.Schema()
	var cols []column
	pos := map[int]int{} // leaf column index -> table column
	for _, p := range schema.Columns() {
		if len(p) != 1 || strings.HasPrefix(p[0], "__index_level_") {
			continue
		}
		leaf, ok := schema.Lookup(p...)
		if !ok {
			continue
		}
		pos[leaf.ColumnIndex] = len(cols)
		cols = append(cols, column{name: p[0], convert: converter(leaf.Node)})
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	t := table.New(names...)
	t.Rows = make([]table.Row, 0, pf.NumRows())

	r := parquet.NewReader(pf)
	defer r.Close()

	buf := make([]parquet.Row, readBatch)
	for {
		n, err := r.ReadRows(buf)
		for _, row := range buf[:n] {
			out := make(table.Row, len(cols))
			for _, v := range row {
				i, ok := pos[v.Column()]
				if !ok || out[i] != nil {
					continue
				}
				if v.IsNull() {
					continue
				}
				out[i] = cols[i].convert(v)
			}
			if err := t.Append(out); err != nil {
				return nil, err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
	}
	return t, nil
}

// converter maps a physical value to a Go value using the column's logical type.
func converter(n parquet.Node) func(parquet.Value) any {
	typ := n.Type()
	lt := typ.LogicalType()

	switch typ.Kind() {
	case parquet.Boolean:
		return func(v parquet.Value) any { return v.Boolean() }
	case parquet.Int32:
		if lt != nil && lt.Date != nil {
			return func(v parquet.Value) any {
				return time.Unix(int64(v.Int32())*86400, 0).UTC()
			}
		}
		return func(v parquet.Value) any { return int64(v.Int32()) }
	case parquet.Int64:
		if lt != nil && lt.Timestamp != nil {
			unit := timeUnit(lt.Timestamp.Unit)
			return func(v parquet.Value) any {
				return time.Unix(0, v.Int64()*int64(unit)).UTC()
			}
		}
		return func(v parquet.Value) any { return v.Int64() }
	case parquet.Float:
		return func(v parquet.Value) any { return float64(v.Float()) }
	case parquet.Double:
		return func(v parquet.Value) any { return v.Double() }
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return func(v parquet.Value) any { return string(v.ByteArray()) }
	default:
		return func(v parquet.Value) any { return v.String() }
	}
}

func timeUnit(u format.TimeUnit) time.Duration {
	switch {
	case u.Nanos != nil:
		return time.Nanosecond
	case u.Micros != nil:
		return time.Microsecond
	default:
		return time.Millisecond
	}
}

// Write stores rows as a parquet file. The file appears under its final name
// only once it is complete.
func Write[T any](path string, rows []T) error {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	writeErr := parquet.Write(f, rows)
	closeErr := f.Close()
	if writeErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write parquet: %w", writeErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return closeErr
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
