package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pable/go-gps-metrics/internal/model"
)

// Overview holds high-level counts for a loaded dataset.
type Overview struct {
	Source        string
	TotalRows     int
	Matches       int
	Players       int
	Teams         []string
	Positions     map[string]int
	EarliestMatch time.Time
	LatestMatch   time.Time
	Warnings      int
}

// NewOverview computes the dataset overview.
func NewOverview(ds *model.Dataset) Overview {
	ov := Overview{
		Source:    ds.Source,
		TotalRows: ds.TotalRows,
		Matches:   len(ds.Records),
		Positions: make(map[string]int),
		Warnings:  len(ds.Warnings),
	}
	players := make(map[string]struct{})
	teams := make(map[string]struct{})
	for _, r := range ds.Records {
		players[r.DisplayName] = struct{}{}
		if r.Team != "" {
			teams[r.Team] = struct{}{}
		}
		if r.Position.Valid {
			ov.Positions[r.Position.String]++
		}
		if d := r.SessionDate; d.Valid {
			if ov.EarliestMatch.IsZero() || d.Time.Before(ov.EarliestMatch) {
				ov.EarliestMatch = d.Time
			}
			if d.Time.After(ov.LatestMatch) {
				ov.LatestMatch = d.Time
			}
		}
	}
	ov.Players = len(players)
	for t := range teams {
		ov.Teams = append(ov.Teams, t)
	}
	sort.Strings(ov.Teams)
	return ov
}

// PrintOverview prints the dataset overview and the position breakdown.
func PrintOverview(w io.Writer, ov Overview) {
	fmt.Fprintf(w, "\n=== Dataset Summary ===\n\n")
	fmt.Fprintf(w, "  Source        : %s\n", ov.Source)
	fmt.Fprintf(w, "  Sessions read : %d\n", ov.TotalRows)
	fmt.Fprintf(w, "  Official      : %d\n", ov.Matches)
	fmt.Fprintf(w, "  Players       : %d\n", ov.Players)
	fmt.Fprintf(w, "  Teams         : %d\n", len(ov.Teams))
	if !ov.EarliestMatch.IsZero() {
		fmt.Fprintf(w, "  Date range    : %s → %s\n",
			ov.EarliestMatch.Format("2006-01-02"), ov.LatestMatch.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "  Warnings      : %d\n", ov.Warnings)

	if len(ov.Teams) > 0 {
		fmt.Fprintf(w, "\n--- Teams ---\n\n")
		for _, t := range ov.Teams {
			fmt.Fprintf(w, "  %s\n", t)
		}
	}

	if len(ov.Positions) == 0 {
		return
	}
	positions := make([]string, 0, len(ov.Positions))
	for p := range ov.Positions {
		positions = append(positions, p)
	}
	sort.Strings(positions)

	fmt.Fprintf(w, "\n--- Positions ---\n\n")
	table := newTable(w)
	table.Header("POSITION", "SESSIONS")
	for _, p := range positions {
		table.Append(p, fmt.Sprintf("%d", ov.Positions[p]))
	}
	table.Render()
}

// PrintWarnings prints up to limit coercion warnings (all when limit <= 0).
func PrintWarnings(w io.Writer, warnings []model.CoercionWarning, limit int) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Coercion warnings ---\n\n")
	table := newTable(w)
	table.Header("ROW", "COLUMN", "VALUE", "PROBLEM")
	for i, wn := range warnings {
		if limit > 0 && i >= limit {
			break
		}
		table.Append(fmt.Sprintf("%d", wn.Row), wn.Column, wn.Value, wn.Reason)
	}
	table.Render()
	if limit > 0 && len(warnings) > limit {
		fmt.Fprintf(w, "... and %d more\n", len(warnings)-limit)
	}
}
