package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clean the kline cache",
	Long: `Manage the per-symbol kline cache kept under the kline root.

Subcommands:
  list  - List cache files with their key and age
  sweep - Delete cache files older than the retention

Examples:
  tradedata cache list
  tradedata cache sweep -m future --market-sub um`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cache files",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired cache files",
	Args:  cobra.NoArgs,
	RunE:  runCacheSweep,
}

var (
	cacheListData  datasetFlags
	cacheSweepData datasetFlags
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheSweepCmd)

	cacheListData.add(cacheListCmd)
	cacheSweepData.add(cacheSweepCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	ds := cacheListData.resolve()
	entries, err := ld.CacheEntries(ds.source, ds.market, ds.marketSub)
	if err != nil {
		return fmt.Errorf("list cache: %w", err)
	}
	dir, err := ld.CacheDir(ds.source, ds.market, ds.marketSub)
	if err != nil {
		return fmt.Errorf("list cache: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "symbol\ttimeframe\tyears\twritten\tage\tfile")
	now := time.Now()
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Symbol, e.Timeframe, e.Years,
			e.Written().UTC().Format("2006-01-02 15:04:05"),
			now.Sub(e.Written()).Truncate(time.Second),
			filepath.Base(e.Path))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "(%d files in %s, retention %s)\n", len(entries), dir, cfg.Cache.Retention)
	return nil
}

func runCacheSweep(cmd *cobra.Command, args []string) error {
	ds := cacheSweepData.resolve()
	removed, err := ld.SweepCache(ds.source, ds.market, ds.marketSub)
	if err != nil {
		return fmt.Errorf("sweep cache: %w", err)
	}
	for _, p := range removed {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", filepath.Base(p))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d expired cache files\n", len(removed))
	return nil
}
