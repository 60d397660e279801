package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradedata CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tradedata version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Partitioned crypto market data loader")
		fmt.Fprintln(cmd.OutOrStdout(), "https://github.com/rustyeddy/tradedata")
	},
	Annotations: map[string]string{skipSetupKey: "true"},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
