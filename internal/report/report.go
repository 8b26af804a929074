package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-gps-metrics/internal/model"
	"github.com/pable/go-gps-metrics/internal/profile"
)

// barWidth is the length of the longest bar in a grouped stats table.
const barWidth = 30

// NoData is printed in place of a table when a section has nothing to show.
const NoData = "No data available"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// groupRow is one group of a long-form stats table pivoted to wide form.
type groupRow struct {
	group        string
	mean, median float64
}

// pivot turns [mean, median] row pairs into one row per group, keeping the
// order in which groups first appear.
func pivot(stats []model.GroupedStat) []groupRow {
	var rows []groupRow
	idx := make(map[string]int)
	for _, s := range stats {
		i, ok := idx[s.Group]
		if !ok {
			i = len(rows)
			idx[s.Group] = i
			rows = append(rows, groupRow{group: s.Group, mean: math.NaN(), median: math.NaN()})
		}
		switch s.Stat {
		case model.StatMean:
			rows[i].mean = s.Value
		case model.StatMedian:
			rows[i].median = s.Value
		}
	}
	return rows
}

// PrintGroupedStats prints a grouped mean/median table with a text bar for
// the mean of each group, scaled to the largest mean.
func PrintGroupedStats(w io.Writer, stats []model.GroupedStat, unit string) {
	rows := pivot(stats)
	maxVal := 0.0
	for _, r := range rows {
		for _, v := range []float64{r.mean, r.median} {
			if !math.IsNaN(v) && v > maxVal {
				maxVal = v
			}
		}
	}

	table := newTable(w)
	table.Header("GROUP", "MEAN", "MEDIAN", "MEAN ▇ / MEDIAN ░")
	for _, r := range rows {
		table.Append(
			r.group,
			FormatValue(r.mean, unit),
			FormatValue(r.median, unit),
			bar(r.mean, maxVal, "▇")+"\n"+bar(r.median, maxVal, "░"),
		)
	}
	table.Render()
}

func bar(v, maxVal float64, glyph string) string {
	if math.IsNaN(v) || maxVal <= 0 || v <= 0 {
		return ""
	}
	n := int(math.Round(v / maxVal * barWidth))
	if n == 0 {
		n = 1
	}
	return strings.Repeat(glyph, n)
}

// PrintSection prints a titled section, or an explicit no-data line.
func PrintSection(w io.Writer, s profile.Section) {
	fmt.Fprintf(w, "\n--- %s ---\n\n", s.Title)
	if s.Empty() {
		printNoData(w, s.Reason)
		return
	}
	PrintGroupedStats(w, s.Stats, s.Metric.Unit())
}

// PrintComparison prints a comparison section followed by its delta panel.
func PrintComparison(w io.Writer, c profile.Comparison) {
	PrintSection(w, c.Section)
	if c.Empty() {
		return
	}
	unit := c.Metric.Unit()
	fmt.Fprintln(w)
	table := newTable(w)
	table.Header("", "SESSIONS", "MEAN", "DELTA")
	table.Append(c.PlayerLabel, fmt.Sprintf("%d", c.PlayerCount), FormatValue(c.PlayerMean, unit), FormatDelta(c.Delta, unit))
	table.Append(profile.ReferenceLabel, fmt.Sprintf("%d", c.ReferenceCount), FormatValue(c.ReferenceMean, unit), "")
	table.Render()
}

// PrintProfile prints the full player profile.
func PrintProfile(w io.Writer, p *profile.Profile) {
	fmt.Fprintf(w, "\nPlayer: %s  |  Team: %s  |  Position: %s  |  Matches: %d\n",
		p.Player, p.Team, p.Position, p.Sessions)

	fmt.Fprintf(w, "\n=== 1. Positional reference (%s) ===\n", p.ProTeam)
	PrintSection(w, p.PositionReference)

	fmt.Fprintf(w, "\n=== 2. %s vs %s standard ===\n", p.Player, p.Position)
	PrintComparison(w, p.HSR)
	PrintComparison(w, p.Sprint)
}

// PrintRoster prints the selectable youth players.
func PrintRoster(w io.Writer, names []string, positions map[string]string) {
	table := newTable(w)
	table.Header("#", "PLAYER", "POSITION")
	for i, n := range names {
		pos := positions[n]
		if pos == "" {
			pos = "—"
		}
		table.Append(fmt.Sprintf("%d", i+1), n, pos)
	}
	table.Render()
}

func printNoData(w io.Writer, reason string) {
	if reason == "" {
		fmt.Fprintln(w, NoData+".")
		return
	}
	fmt.Fprintf(w, "%s: %s.\n", NoData, reason)
}

// FormatValue renders a statistic, or "—" for NaN.
func FormatValue(v float64, unit string) string {
	if math.IsNaN(v) {
		return "—"
	}
	s := fmt.Sprintf("%.0f", v)
	if unit == "km/h" {
		s = fmt.Sprintf("%.1f", v)
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}

// FormatDelta renders a signed delta, or "—" for NaN.
func FormatDelta(v float64, unit string) string {
	if math.IsNaN(v) {
		return "—"
	}
	s := FormatValue(math.Abs(v), unit)
	if v >= 0 {
		return "+" + s
	}
	return "-" + s
}
