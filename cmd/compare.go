package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/model"
	"github.com/pable/go-gps-metrics/internal/profile"
	"github.com/pable/go-gps-metrics/internal/report"
)

var compareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare <player>",
	Short: "Profile a player against the positional standard of the pro squad",
	Long: `Print the positional reference of the professional squad, then compare the
player's high-speed running (Z5+Z6) and sprint distance (Z6) with the pro
players of the same position: mean and median per group and the signed delta
of the means.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "write JSON instead of tables")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	return printProfile(ds, args[0], compareJSON)
}

func printProfile(ds *model.Dataset, player string, asJSON bool) error {
	p, err := profile.Build(ds, player, proTeam)
	if errors.Is(err, profile.ErrPlayerNotFound) {
		fmt.Fprintf(os.Stderr, "hint: run 'gpsmetrics players' to list available players\n")
	}
	if err != nil {
		return err
	}
	if asJSON {
		return report.WriteProfileJSON(os.Stdout, p)
	}
	report.PrintProfile(os.Stdout, p)
	fmt.Fprintln(os.Stdout)
	return nil
}
