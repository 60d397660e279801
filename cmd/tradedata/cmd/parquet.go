package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedata/loader"
)

var parquetCmd = &cobra.Command{
	Use:   "parquet <data-type> <symbol>",
	Short: "Load one symbol's files of a data type",
	Long: `Load parquet files below {root}/{source}/{market}/[{market_sub}/]{data_type}/{symbol}.

aggTrades files are concatenated, optionally filtered by --years. For every
other data type only the file with the latest end date is loaded; types
other than trades, metrics and depth need --detail to name the file infix.

Examples:
  tradedata parquet aggTrades BTCUSDT --years 2025
  tradedata parquet metrics BTCUSDT -m future --market-sub um
  tradedata parquet kline ETHUSDT --detail kline_1d`,
	Args: cobra.ExactArgs(2),
	RunE: runParquet,
}

var fundingCmd = &cobra.Command{
	Use:   "funding <symbol>",
	Short: "Load the latest USD-margined funding rate file of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runFunding,
}

var (
	parquetData   datasetFlags
	parquetOut    outputFlags
	parquetDetail string
	parquetYears  []int

	fundingSource string
	fundingOut    outputFlags
)

func init() {
	rootCmd.AddCommand(parquetCmd)
	rootCmd.AddCommand(fundingCmd)

	parquetData.add(parquetCmd)
	parquetOut.add(parquetCmd)
	parquetCmd.Flags().StringVar(&parquetDetail, "detail", "", "file infix for generic data types")
	parquetCmd.Flags().IntSliceVarP(&parquetYears, "years", "y", nil, "aggTrades only: files of these years")

	fundingCmd.Flags().StringVar(&fundingSource, "source", "", "data source (default from config, binance)")
	fundingOut.add(fundingCmd)
}

func runParquet(cmd *cobra.Command, args []string) error {
	ds := parquetData.resolve()
	t, err := ld.LoadParquet(loader.ParquetRequest{
		Source:    ds.source,
		Market:    ds.market,
		MarketSub: ds.marketSub,
		DataType:  args[0],
		Symbol:    args[1],
		Detail:    parquetDetail,
		Years:     parquetYears,
	})
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}
	return parquetOut.emit(cmd.OutOrStdout(), t)
}

func runFunding(cmd *cobra.Command, args []string) error {
	src := fundingSource
	if src == "" {
		src = cfg.Defaults.Source
	}
	t, err := ld.LoadFundingRate(src, args[0])
	if err != nil {
		return fmt.Errorf("load funding rate: %w", err)
	}
	return fundingOut.emit(cmd.OutOrStdout(), t)
}
