package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/model"
	"github.com/pable/go-gps-metrics/internal/profile"
	"github.com/pable/go-gps-metrics/internal/report"
)

var (
	positionsMetric string
	positionsJSON   bool
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Show the professional squad's reference values by position",
	Long: `Aggregate the professional squad's official matches by position and
print the mean and median of a metric for each position.`,
	Args: cobra.NoArgs,
	RunE: runPositions,
}

func init() {
	positionsCmd.Flags().StringVar(&positionsMetric, "metric", string(model.MetricZ6), "metric to aggregate")
	positionsCmd.Flags().BoolVar(&positionsJSON, "json", false, "write JSON instead of tables")
}

func runPositions(cmd *cobra.Command, args []string) error {
	metric, err := model.ParseMetric(positionsMetric)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	sec, err := profile.PositionReference(ds, proTeam, metric)
	if err != nil {
		return err
	}
	if positionsJSON {
		return report.WriteSectionJSON(os.Stdout, sec)
	}
	report.PrintSection(os.Stdout, sec)
	fmt.Fprintln(os.Stdout)
	return nil
}
