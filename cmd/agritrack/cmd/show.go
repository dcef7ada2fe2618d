package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantagri/agritrack/report"
	"github.com/quantagri/agritrack/tracker"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the latest row without fetching",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List every row of the persisted series",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := tracker.OpenStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	s, err := store.Load()
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	row, ok := s.Latest()
	if !ok {
		fmt.Println("no data yet; run 'agritrack update' first")
		return nil
	}

	eng := cfg.Engine()
	fmt.Print(report.Summary(row, eng.Positions, eng.Spread))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := tracker.OpenStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	s, err := store.Load()
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	for _, row := range s.Rows() {
		fmt.Println(report.Line(row))
	}
	return nil
}
