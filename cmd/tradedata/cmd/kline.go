package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedata/loader"
)

var klineCmd = &cobra.Command{
	Use:   "kline <symbol>...",
	Short: "Load kline series for one or more symbols",
	Long: `Join the kline files of every symbol for one timeframe, optionally
restricted to some years. Results are cached per symbol under the kline
root and reused while every requested symbol has a fresh entry.

Examples:
  tradedata kline BTCUSDT ETHUSDT -t 1h
  tradedata kline BTCUSDT -t 1d --years 2024,2025 --csv btc.csv
  tradedata kline BTCUSDT -m future --market-sub um -t 4h`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKline,
}

var smaCmd = &cobra.Command{
	Use:   "sma <symbol>...",
	Short: "Load klines with 7, 25 and 99 bar moving averages",
	Long: `Same as kline, with ma7, ma25 and ma99 columns computed per symbol.

Example:
  tradedata sma BTCUSDT -t 15m --head 50`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSMA,
}

type klineFlags struct {
	datasetFlags
	outputFlags
	timeframe string
	years     []int
}

var (
	klineOpts klineFlags
	smaOpts   klineFlags
)

func (k *klineFlags) add(c *cobra.Command) {
	k.datasetFlags.add(c)
	k.outputFlags.add(c)
	c.Flags().StringVarP(&k.timeframe, "timeframe", "t", "", "1m, 3m, 5m, 15m, 30m, 1h, 4h, 8h, 12h or 1d (default from config)")
	c.Flags().IntSliceVarP(&k.years, "years", "y", nil, "only files of these years")
}

func (k *klineFlags) request(symbols []string) loader.KlineRequest {
	ds := k.resolve()
	tf := k.timeframe
	if tf == "" {
		tf = cfg.Defaults.Timeframe
	}
	return loader.KlineRequest{
		Source:    ds.source,
		Market:    ds.market,
		MarketSub: ds.marketSub,
		Timeframe: tf,
		Years:     k.years,
		Symbols:   symbols,
	}
}

func init() {
	rootCmd.AddCommand(klineCmd)
	rootCmd.AddCommand(smaCmd)
	klineOpts.add(klineCmd)
	smaOpts.add(smaCmd)
}

func runKline(cmd *cobra.Command, args []string) error {
	ks, err := ld.LoadKline(klineOpts.request(args))
	if err != nil {
		return fmt.Errorf("load klines: %w", err)
	}
	return klineOpts.emit(cmd.OutOrStdout(), klineTable(ks))
}

func runSMA(cmd *cobra.Command, args []string) error {
	rows, err := ld.LoadTickerSetSMA(smaOpts.request(args))
	if err != nil {
		return fmt.Errorf("load klines: %w", err)
	}
	return smaOpts.emit(cmd.OutOrStdout(), smaTable(rows))
}
