package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/aggregator"
	"github.com/pable/go-gps-metrics/internal/model"
	"github.com/pable/go-gps-metrics/internal/profile"
	"github.com/pable/go-gps-metrics/internal/report"
)

var (
	statsMetric string
	statsBy     string
	statsTeam   string
	statsDelta  []string
	statsJSON   bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Mean and median of any metric grouped by any column",
	Long: `Aggregate official-match sessions by a grouping column and print the mean
and median of a metric per group.

Metrics: ` + metricNames() + `
Group keys: DisplayName, team, position, sessionType

Example:
  gpsmetrics stats --metric distanceHSR --by team
  gpsmetrics stats --metric maxSpeed --by position --team Pro2 --delta Winger,Fullback`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsMetric, "metric", string(model.MetricHSR), "metric to aggregate")
	statsCmd.Flags().StringVar(&statsBy, "by", string(model.GroupPosition), "column to group by")
	statsCmd.Flags().StringVar(&statsTeam, "team", "", "only sessions whose team contains this fragment")
	statsCmd.Flags().StringSliceVar(&statsDelta, "delta", nil, "two groups A,B: print mean(A) − mean(B)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "write JSON instead of tables")
}

func metricNames() string {
	var names []string
	for _, m := range model.Metrics() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

func runStats(cmd *cobra.Command, args []string) error {
	metric, err := model.ParseMetric(statsMetric)
	if err != nil {
		return err
	}
	key, err := model.ParseGroupKey(statsBy)
	if err != nil {
		return err
	}
	if key == model.GroupLabel {
		return &model.ConfigurationError{Kind: "group key", Name: statsBy}
	}
	if len(statsDelta) != 0 && len(statsDelta) != 2 {
		return fmt.Errorf("--delta takes exactly two groups, got %d", len(statsDelta))
	}

	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	if statsTeam != "" {
		ds = ds.Where(func(r model.SessionRecord) bool { return profile.IsPro(r.Team, statsTeam) })
	}

	stats, err := aggregator.Aggregate(ds, metric, key)
	if err != nil {
		return err
	}
	sec := profile.Section{
		Title:  fmt.Sprintf("%s by %s", metric.Title(), key),
		Metric: metric,
		Key:    key,
		Stats:  stats,
	}
	if sec.Empty() {
		sec.Reason = fmt.Sprintf("no sessions carry a %s", key)
	}
	if statsJSON {
		return report.WriteSectionJSON(os.Stdout, sec)
	}
	report.PrintSection(os.Stdout, sec)

	if len(statsDelta) == 2 {
		a, b := statsDelta[0], statsDelta[1]
		d, err := aggregator.Delta(ds, metric, key, a, b)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nDelta %s − %s: %s\n", a, b, report.FormatDelta(d, metric.Unit()))
	}
	fmt.Fprintln(os.Stdout)
	return nil
}
