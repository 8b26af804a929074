// Package profile builds the player profiling report: a positional reference
// drawn from the professional squad and a player-versus-standard comparison
// for high-speed running and sprint distance.
package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pable/go-gps-metrics/internal/aggregator"
	"github.com/pable/go-gps-metrics/internal/model"
)

// DefaultProTeam is the team name fragment identifying the professional squad.
const DefaultProTeam = "Pro2"

// UnknownPosition is shown when a player's records carry no position.
const UnknownPosition = "Unknown"

// ReferenceLabel is the group label of the positional reference in comparisons.
const ReferenceLabel = "Pro standard"

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoYouthPlayers = errors.New("no youth players found")
)

// Section is one metric block of a profile. When Stats is empty, Reason says
// why there is nothing to show.
type Section struct {
	Title  string
	Metric model.Metric
	Key    model.GroupKey
	Stats  []model.GroupedStat
	Reason string
}

// Empty reports whether the section has no data to display.
func (s Section) Empty() bool { return len(s.Stats) == 0 }

// Comparison is a player-versus-reference block with its delta panel.
type Comparison struct {
	Section
	PlayerLabel    string
	PlayerMean     float64
	ReferenceMean  float64
	Delta          float64 // PlayerMean − ReferenceMean
	PlayerCount    int
	ReferenceCount int
}

// Profile is the full report for one player.
type Profile struct {
	Player            string
	Team              string
	Position          string
	Sessions          int
	ProTeam           string
	PositionReference Section
	HSR               Comparison
	Sprint            Comparison
}

// IsPro reports whether team belongs to the professional squad.
func IsPro(team, proTeam string) bool {
	return strings.Contains(strings.ToLower(team), strings.ToLower(proTeam))
}

// YouthPlayers returns the sorted distinct names of players outside proTeam.
func YouthPlayers(ds *model.Dataset, proTeam string) ([]string, error) {
	if !ds.HasColumn(model.ColTeam) {
		return nil, &model.ConfigurationError{Kind: "column", Name: model.ColTeam, Absent: true}
	}
	seen := make(map[string]struct{})
	for _, r := range ds.Records {
		if r.DisplayName == "" || IsPro(r.Team, proTeam) {
			continue
		}
		seen[r.DisplayName] = struct{}{}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w (check the pro team name %q)", ErrNoYouthPlayers, proTeam)
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// ProRecords returns the records belonging to proTeam.
func ProRecords(ds *model.Dataset, proTeam string) *model.Dataset {
	return ds.Where(func(r model.SessionRecord) bool { return IsPro(r.Team, proTeam) })
}

// PositionReference aggregates sprint distance of the pro squad by position.
func PositionReference(ds *model.Dataset, proTeam string, metric model.Metric) (Section, error) {
	sec := Section{
		Title:  fmt.Sprintf("%s by position (%s)", metric.Title(), proTeam),
		Metric: metric,
		Key:    model.GroupPosition,
	}
	if !ds.HasColumn(model.ColTeam) {
		return sec, &model.ConfigurationError{Kind: "column", Name: model.ColTeam, Absent: true}
	}
	pro := ProRecords(ds, proTeam)
	if pro.Empty() {
		sec.Reason = fmt.Sprintf("not enough %s data for the positional chart", proTeam)
		return sec, nil
	}
	stats, err := aggregator.Aggregate(pro, metric, model.GroupPosition)
	if err != nil {
		return sec, err
	}
	sec.Stats = stats
	if sec.Empty() {
		sec.Reason = fmt.Sprintf("no %s sessions carry a position", proTeam)
	}
	return sec, nil
}

// Build assembles the profile of player against the positional reference of
// proTeam.
func Build(ds *model.Dataset, player, proTeam string) (*Profile, error) {
	if !ds.HasColumn(model.ColTeam) {
		return nil, &model.ConfigurationError{Kind: "column", Name: model.ColTeam, Absent: true}
	}
	mine := ds.Where(func(r model.SessionRecord) bool { return r.DisplayName == player })
	if mine.Empty() {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, player)
	}

	first := mine.Records[0]
	p := &Profile{
		Player:   player,
		Team:     first.Team,
		Position: first.PositionOr(UnknownPosition),
		Sessions: len(mine.Records),
		ProTeam:  proTeam,
	}

	posRef, err := PositionReference(ds, proTeam, model.MetricZ6)
	if err != nil && !errors.Is(err, model.ErrConfiguration) {
		return nil, err
	}
	if err != nil {
		posRef.Reason = err.Error()
	}
	p.PositionReference = posRef

	reference := ProRecords(ds, proTeam).Where(func(r model.SessionRecord) bool {
		return r.Position.Valid && r.Position.String == p.Position
	})

	playerLabel := fmt.Sprintf("Player (%s)", player)
	noRef := fmt.Sprintf("no %s data for position %s", proTeam, p.Position)

	p.HSR, err = compare(mine, reference, model.MetricHSR, playerLabel, noRef)
	if err != nil {
		return nil, err
	}
	p.Sprint, err = compare(mine, reference, model.MetricZ6, playerLabel, noRef)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func compare(player, reference *model.Dataset, metric model.Metric, playerLabel, noRef string) (Comparison, error) {
	c := Comparison{
		Section: Section{
			Title:  metric.Title(),
			Metric: metric,
			Key:    model.GroupLabel,
		},
		PlayerLabel:   playerLabel,
		PlayerMean:    math.NaN(),
		ReferenceMean: math.NaN(),
		Delta:         math.NaN(),
	}
	if !player.HasMetric(metric) {
		c.Reason = (&model.ConfigurationError{Kind: "metric", Name: string(metric), Absent: true}).Error()
		return c, nil
	}
	if reference.Empty() {
		c.Reason = noRef
		return c, nil
	}

	combined := aggregator.Combine(player, reference, playerLabel, ReferenceLabel)
	stats, err := aggregator.Aggregate(combined, metric, model.GroupLabel)
	if err != nil {
		return c, fmt.Errorf("compare %s: %w", metric, err)
	}
	c.Stats = stats

	ps, err := aggregator.Summarize(combined, metric, model.GroupLabel, playerLabel)
	if err != nil {
		return c, err
	}
	rs, err := aggregator.Summarize(combined, metric, model.GroupLabel, ReferenceLabel)
	if err != nil {
		return c, err
	}
	c.PlayerMean, c.PlayerCount = ps.Mean, ps.Count
	c.ReferenceMean, c.ReferenceCount = rs.Mean, rs.Count

	c.Delta, err = aggregator.Delta(combined, metric, model.GroupLabel, playerLabel, ReferenceLabel)
	if err != nil {
		return c, err
	}
	return c, nil
}
