package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-gps-metrics/internal/aggregator"
	"github.com/pable/go-gps-metrics/internal/model"
	"github.com/pable/go-gps-metrics/internal/profile"
	"github.com/pable/go-gps-metrics/internal/report"
)

var (
	cPrompt   = color.New(color.FgRed, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session over the loaded export",
	Long:  "Load the export once and explore players and positions interactively. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ld, closeFn, err := newLoader()
	if err != nil {
		return err
	}
	defer closeFn()

	ds, err := loadWith(ctx, ld)
	if err != nil {
		return err
	}

	cGreeting.Println("gpsmetrics shell")
	cMuted.Printf("%s: %d official match sessions. type 'help' or 'exit'\n", csvPath, len(ds.Records))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("gpsmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "players":
			shellPlayers(ds)
		case "compare", "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: compare <player name>")
				continue
			}
			if err := printProfile(ds, strings.Join(args, " "), false); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "positions":
			metric := model.MetricZ6
			if len(args) > 0 {
				if metric, err = model.ParseMetric(args[0]); err != nil {
					cError.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}
			}
			shellPositions(ds, metric)
		case "stats":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: stats <metric> <group key>")
				continue
			}
			shellStats(ds, args[0], args[1])
		case "summary":
			report.PrintOverview(os.Stdout, report.NewOverview(ds))
		case "reload":
			fresh, err := loadWith(ctx, ld)
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			ds = fresh
			cMuted.Printf("reloaded: %d official match sessions\n", len(ds.Records))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"players", "list youth players"},
		{"compare <player name>", "profile a player against the pro positional standard"},
		{"positions [metric]", "pro squad reference by position (default distanceZ6Abs)"},
		{"stats <metric> <group key>", "mean and median of a metric per group"},
		{"summary", "overview of the loaded export"},
		{"reload", "re-read the CSV export"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-30s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellPlayers(ds *model.Dataset) {
	names, err := profile.YouthPlayers(ds, proTeam)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintRoster(os.Stdout, names, firstPositions(ds))
}

func shellPositions(ds *model.Dataset, metric model.Metric) {
	sec, err := profile.PositionReference(ds, proTeam, metric)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintSection(os.Stdout, sec)
}

func shellStats(ds *model.Dataset, metricName, keyName string) {
	metric, err := model.ParseMetric(metricName)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	key, err := model.ParseGroupKey(keyName)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	stats, err := aggregator.Aggregate(ds, metric, key)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintSection(os.Stdout, profile.Section{
		Title:  fmt.Sprintf("%s by %s", metric.Title(), key),
		Metric: metric,
		Key:    key,
		Stats:  stats,
	})
}
