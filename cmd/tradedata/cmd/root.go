package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedata/config"
	"github.com/rustyeddy/tradedata/internal/logger"
	"github.com/rustyeddy/tradedata/journal"
	"github.com/rustyeddy/tradedata/loader"
)

var rootCmd = &cobra.Command{
	Use:   "tradedata",
	Short: "Load and inspect partitioned crypto market data",
	Long: `Tradedata loads historical crypto market data stored as partitioned
parquet files under a data root ($TRADE_DATA, default /trade_data).

It provides tools for:
  - Joining per-symbol kline series with a self-expiring cache
  - Annotating klines with 7, 25 and 99 bar moving averages
  - Loading aggTrades, trades, metrics, depth and funding rate files
  - Rendering candlestick charts as HTML
  - Keeping a journal of every load

Complete documentation is available at https://github.com/rustyeddy/tradedata`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var (
	cfgFile      string
	dataRootFlag string
	logLevelFlag string

	cfg  *config.Config
	log  *slog.Logger
	jrnl journal.Journal
	ld   *loader.Loader
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&dataRootFlag, "data-root", "", "data root (overrides $TRADE_DATA)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error")
}

// loadConfig reads .env and the configuration, applies flag overrides and
// builds the logger.
func loadConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var err error
	if cfg, err = config.Load(cfgFile); err != nil {
		return err
	}
	if dataRootFlag != "" {
		cfg.DataRoot = dataRootFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}

	log, err = logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	return err
}

// setup loads the configuration, then builds the journal and the loader
// shared by every loading subcommand.
func setup(cmd *cobra.Command, args []string) error {
	if skipsSetup(cmd) {
		return nil
	}
	if err := loadConfig(); err != nil {
		return err
	}

	var err error
	if jrnl, err = journal.Open(cfg.Journal.Type, cfg.Journal.Path); err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	ld = loader.New(cfg.DataRoot,
		loader.WithCacheDir(cfg.Cache.Dir),
		loader.WithRetention(cfg.Cache.Retention),
		loader.WithLogger(log),
		loader.WithJournal(jrnl),
	)
	log.Debug("configured", "data_root", cfg.DataRoot, "journal", cfg.Journal.Type)
	return nil
}

// skipSetupKey marks commands, and their children, that run without a
// loaded configuration.
const skipSetupKey = "skip-setup"

func skipsSetup(c *cobra.Command) bool {
	for ; c != nil; c = c.Parent() {
		if c.Annotations[skipSetupKey] == "true" {
			return true
		}
	}
	return false
}

func teardown(cmd *cobra.Command, args []string) error {
	if jrnl == nil {
		return nil
	}
	err := jrnl.Close()
	jrnl = nil
	return err
}

// datasetFlags are the market selectors shared by the loading commands.
type datasetFlags struct {
	source    string
	market    string
	marketSub string
}

func (d *datasetFlags) add(c *cobra.Command) {
	c.Flags().StringVar(&d.source, "source", "", "data source (default from config, binance)")
	c.Flags().StringVarP(&d.market, "market", "m", "", "spot or future (default from config)")
	c.Flags().StringVar(&d.marketSub, "market-sub", "", "um or cm, futures only")
}

// resolve fills empty selectors from the configuration defaults.
func (d *datasetFlags) resolve() datasetFlags {
	out := *d
	if out.source == "" {
		out.source = cfg.Defaults.Source
	}
	if out.market == "" {
		out.market = cfg.Defaults.Market
	}
	if out.marketSub == "" {
		out.marketSub = cfg.Defaults.MarketSub
	}
	return out
}
