package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedata/market"
	"github.com/rustyeddy/tradedata/table"
)

// outputFlags control how a loaded table is shown.
type outputFlags struct {
	head    int
	csvPath string
}

func (o *outputFlags) add(c *cobra.Command) {
	c.Flags().IntVarP(&o.head, "head", "n", 20, "rows to print, -1 for all")
	c.Flags().StringVar(&o.csvPath, "csv", "", "write every row to this CSV file instead of printing")
}

func (o *outputFlags) emit(w io.Writer, t *table.Table) error {
	if o.csvPath != "" {
		if err := writeCSV(o.csvPath, t); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Wrote %d rows to %s\n", t.Len(), o.csvPath)
		return nil
	}
	if err := printTable(w, t.Head(o.head)); err != nil {
		return err
	}
	fmt.Fprintf(w, "(%d rows)\n", t.Len())
	return nil
}

func klineTable(ks []market.Kline) *table.Table {
	t := table.New(market.KlineColumns...)
	t.Rows = make([]table.Row, len(ks))
	for i, k := range ks {
		t.Rows[i] = k.Values()
	}
	return t
}

func smaTable(ks []market.SMAKline) *table.Table {
	t := table.New(market.SMAColumns...)
	t.Rows = make([]table.Row, len(ks))
	for i, k := range ks {
		t.Rows[i] = k.Values()
	}
	return t
}

func printTable(w io.Writer, t *table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range t.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
	for _, r := range t.Rows {
		for i, v := range r {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func writeCSV(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, v := range r {
			rec[i] = cell(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
