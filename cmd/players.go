package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/model"
	"github.com/pable/go-gps-metrics/internal/profile"
	"github.com/pable/go-gps-metrics/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List youth players available for profiling",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	names, err := profile.YouthPlayers(ds, proTeam)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n%d players outside %s\n\n", len(names), proTeam)
	report.PrintRoster(os.Stdout, names, firstPositions(ds))
	return nil
}

// firstPositions maps each player to the position of their first record.
func firstPositions(ds *model.Dataset) map[string]string {
	out := make(map[string]string)
	for _, r := range ds.Records {
		if _, ok := out[r.DisplayName]; !ok {
			out[r.DisplayName] = r.PositionOr("")
		}
	}
	return out
}
