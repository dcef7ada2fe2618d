package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantagri/agritrack/quote"
	"github.com/quantagri/agritrack/report"
	"github.com/quantagri/agritrack/tracker"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one update cycle",
	Long: `Fetch the latest prices, upsert today's row into the persisted
series, recompute P&L over the whole series and persist it. Running
update more than once on the same day replaces the day's row rather
than appending a duplicate.

Example:
  agritrack update -c agritrack.yaml`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := tracker.OpenStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	timeout, err := cfg.Quote.ParseTimeout()
	if err != nil {
		return err
	}
	client := quote.NewClient(cfg.Quote.BaseURL, timeout)

	t := tracker.New(cfg, store, client)
	row, err := t.RunOnce(cmd.Context())
	if err != nil {
		return err
	}

	eng := t.Engine()
	fmt.Print(report.Summary(row, eng.Positions, eng.Spread))
	return nil
}
