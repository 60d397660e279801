package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List the symbols with kline data",
	Args:  cobra.NoArgs,
	RunE:  runSymbols,
}

var symbolsData datasetFlags

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsData.add(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	ds := symbolsData.resolve()
	syms, err := ld.KlineSymbols(ds.source, ds.market, ds.marketSub)
	if err != nil {
		return fmt.Errorf("list symbols: %w", err)
	}
	for _, s := range syms {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}
