package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantagri/agritrack/config"
)

var rootCmd = &cobra.Command{
	Use:   "agritrack",
	Short: "Daily mark-to-market tracker for a fixed commodity-futures book",
	Long: `Agritrack maintains a daily ledger of a fixed commodity-futures
portfolio. Each update cycle fetches the latest Soybeans, Corn, Wheat
and Sugar prices, merges them into the persisted series (one row per
calendar date) and recomputes mark-to-market P&L against the configured
entry prices.

Commands:
  update   - run one update cycle (fetch, upsert, recompute, persist)
  show     - print the latest row without fetching
  history  - list the full series
  config   - generate or validate configuration files`,
}

var cfgPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "./agritrack.yaml", "path to config file")
}

func loadConfig() (*config.Config, error) {
	return config.LoadFromFile(cfgPath)
}
