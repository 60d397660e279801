package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradedata/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage tradedata configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file
  env      - Describe the environment variables

Examples:
  tradedata config init -o tradedata.yaml
  tradedata config validate -f tradedata.yaml`,
	Annotations: map[string]string{skipSetupKey: "true"},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check that a configuration file, overlaid with the environment, is valid.

Example:
  tradedata config validate -f tradedata.yaml`,
	RunE: runConfigValidate,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Describe the environment variables",
	RunE:  runConfigEnv,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configEnvCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "tradedata.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  tradedata --config %s kline BTCUSDT\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Data root: %s\n", cfg.DataRoot)
	fmt.Fprintf(out, "  Cache: %s (retention %s)\n", cfg.Cache.Dir, cfg.Cache.Retention)
	fmt.Fprintf(out, "  Log: %s/%s\n", cfg.Log.Level, cfg.Log.Format)
	fmt.Fprintf(out, "  Journal: %s\n", cfg.Journal.Type)
	return nil
}

func runConfigEnv(cmd *cobra.Command, args []string) error {
	usage, err := config.Usage()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), usage)
	return nil
}
