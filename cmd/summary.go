package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/report"
)

var summaryWarnings int

// summaryCmd is the cobra command for displaying a high-level dataset overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the loaded export",
	Long: `Display aggregate information about the CSV export: sessions read,
official matches kept, players, teams, date range, sessions per position, and
cells that could not be parsed.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryWarnings, "warnings", 20, "max coercion warnings to list (0 = all)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	report.PrintOverview(os.Stdout, report.NewOverview(ds))
	report.PrintWarnings(os.Stdout, ds.Warnings, summaryWarnings)
	return nil
}
