package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedata/chart"
)

var chartCmd = &cobra.Command{
	Use:   "chart <symbol>",
	Short: "Render a candlestick chart with moving averages as HTML",
	Long: `Load one symbol's klines with moving averages and write an interactive
chart around a center time. The chart holds --data-bars bars on each side of
the center and initially shows --show-bars of them.

Examples:
  tradedata chart BTCUSDT -t 1h
  tradedata chart BTCUSDT -t 1m --center "2025-03-01 09:30" -o btc.html`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

var (
	chartOpts     klineFlags
	chartCenter   string
	chartDataBars int
	chartShowBars int
	chartOutput   string
)

var centerLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartOpts.datasetFlags.add(chartCmd)
	chartCmd.Flags().StringVarP(&chartOpts.timeframe, "timeframe", "t", "", "kline timeframe (default from config)")
	chartCmd.Flags().IntSliceVarP(&chartOpts.years, "years", "y", nil, "only files of these years")
	chartCmd.Flags().StringVar(&chartCenter, "center", "", "center time in UTC (default last bar)")
	chartCmd.Flags().IntVar(&chartDataBars, "data-bars", chart.DefaultDataBars, "bars loaded each side of the center")
	chartCmd.Flags().IntVar(&chartShowBars, "show-bars", chart.DefaultShowBars, "bars shown each side of the center")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output HTML file (default {symbol}_{timeframe}.html)")
}

func parseCenter(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range centerLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse center time %q", s)
}

func runChart(cmd *cobra.Command, args []string) error {
	center, err := parseCenter(chartCenter)
	if err != nil {
		return err
	}

	req := chartOpts.request(args)
	rows, err := ld.LoadTickerSetSMA(req)
	if err != nil {
		return fmt.Errorf("load klines: %w", err)
	}

	fig, err := chart.Build(rows, chart.Options{
		Symbol:    args[0],
		Timeframe: req.Timeframe,
		Center:    center,
		DataBars:  chartDataBars,
		ShowBars:  chartShowBars,
	})
	if err != nil {
		return fmt.Errorf("build chart: %w", err)
	}

	out := chartOutput
	if out == "" {
		out = fmt.Sprintf("%s_%s.html", args[0], req.Timeframe)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := fig.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	log.Info("chart written", "file", out, "bars", len(fig.Rows), "center", fig.Center)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d bars)\n", out, len(fig.Rows))
	return f.Close()
}
