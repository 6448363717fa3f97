package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rentalsmoke",
	Short: "End-to-end smoke tests for the rental backend",
	Long: `rentalsmoke runs a fixed sequence of API checks against a running
rental backend: health, vendor and customer registration, the product
lifecycle, role enforcement, availability, orders and cleanup.

Each step is reported as it runs, followed by a summary. Detailed results
are written to test_results_detailed.json. The exit code is 0 only when
every step passed.

Examples:
  rentalsmoke
  rentalsmoke --base-url http://staging:5000 --junit-file smoke.xml
  rentalsmoke --history-db smoke.db --slack-webhook $SLACK_WEBHOOK`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCommand,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config file (default: .rentalsmoke.yaml, rentalsmoke.yaml or their .yml forms)")
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "Path to .env file (default: .env if present)")
	rootCmd.PersistentFlags().StringVar(&flags.historyDB, "history-db", "", "SQLite file recording completed runs (env: RENTALSMOKE_HISTORY_DB)")

	registerRunFlags(rootCmd)

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
