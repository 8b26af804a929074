package report

import (
	"io"
	"math"

	"github.com/goccy/go-json"

	"github.com/pable/go-gps-metrics/internal/model"
	"github.com/pable/go-gps-metrics/internal/profile"
)

// jsonStat is a GroupedStat with NaN encoded as null.
type jsonStat struct {
	Group string   `json:"group"`
	Stat  string   `json:"statistic"`
	Value *float64 `json:"value"`
}

type jsonSection struct {
	Title  string     `json:"title"`
	Metric string     `json:"metric"`
	Key    string     `json:"group_key"`
	Unit   string     `json:"unit,omitempty"`
	Stats  []jsonStat `json:"stats"`
	Reason string     `json:"no_data_reason,omitempty"`
}

type jsonComparison struct {
	jsonSection
	PlayerLabel    string   `json:"player_label"`
	PlayerMean     *float64 `json:"player_mean"`
	ReferenceMean  *float64 `json:"reference_mean"`
	Delta          *float64 `json:"delta"`
	PlayerCount    int      `json:"player_sessions"`
	ReferenceCount int      `json:"reference_sessions"`
}

type jsonProfile struct {
	Player            string         `json:"player"`
	Team              string         `json:"team"`
	Position          string         `json:"position"`
	Sessions          int            `json:"sessions"`
	ProTeam           string         `json:"pro_team"`
	PositionReference jsonSection    `json:"position_reference"`
	HSR               jsonComparison `json:"hsr"`
	Sprint            jsonComparison `json:"sprint"`
}

// WriteProfileJSON writes the profile as indented JSON.
func WriteProfileJSON(w io.Writer, p *profile.Profile) error {
	return writeJSON(w, jsonProfile{
		Player:            p.Player,
		Team:              p.Team,
		Position:          p.Position,
		Sessions:          p.Sessions,
		ProTeam:           p.ProTeam,
		PositionReference: toJSONSection(p.PositionReference),
		HSR:               toJSONComparison(p.HSR),
		Sprint:            toJSONComparison(p.Sprint),
	})
}

// WriteSectionJSON writes one section as indented JSON.
func WriteSectionJSON(w io.Writer, s profile.Section) error {
	return writeJSON(w, toJSONSection(s))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toJSONSection(s profile.Section) jsonSection {
	out := jsonSection{
		Title:  s.Title,
		Metric: string(s.Metric),
		Key:    string(s.Key),
		Unit:   s.Metric.Unit(),
		Stats:  toJSONStats(s.Stats),
		Reason: s.Reason,
	}
	return out
}

func toJSONComparison(c profile.Comparison) jsonComparison {
	return jsonComparison{
		jsonSection:    toJSONSection(c.Section),
		PlayerLabel:    c.PlayerLabel,
		PlayerMean:     nullable(c.PlayerMean),
		ReferenceMean:  nullable(c.ReferenceMean),
		Delta:          nullable(c.Delta),
		PlayerCount:    c.PlayerCount,
		ReferenceCount: c.ReferenceCount,
	}
}

func toJSONStats(stats []model.GroupedStat) []jsonStat {
	out := make([]jsonStat, len(stats))
	for i, s := range stats {
		out[i] = jsonStat{Group: s.Group, Stat: string(s.Stat), Value: nullable(s.Value)}
	}
	return out
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
