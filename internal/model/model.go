package model

import (
	"database/sql"
	"slices"
	"strings"
)

// Source column names as exported by the GPS tracking platform.
const (
	ColDisplayName   = "DisplayName"
	ColTeam          = "team"
	ColPosition      = "position"
	ColSessionType   = "sessionType"
	ColSessionDate   = "sessionDate"
	ColDistanceZ5    = "distanceZ5Abs"
	ColDistanceZ6    = "distanceZ6Abs"
	ColMaxSpeed      = "maxSpeed"
	ColAllMaxSpeed   = "allMaxSpeed"
	ColDistanceTotal = "distanceTotal"
	ColTotalTime     = "totalTime"
	ColEntriesZ6     = "entriesZ6Abs"
)

// RequiredColumns must be present for a source to be usable at all.
var RequiredColumns = []string{ColDisplayName, ColSessionType}

// ---- Session records ----

// SessionRecord is one row per player per tracked session.
type SessionRecord struct {
	DisplayName string
	Team        string
	Position    sql.NullString
	SessionType string
	SessionDate sql.NullTime

	DistanceZ5    sql.NullFloat64 // metres in speed zone 5
	DistanceZ6    sql.NullFloat64 // metres in speed zone 6 (sprint)
	MaxSpeed      sql.NullFloat64 // km/h
	AllMaxSpeed   sql.NullFloat64 // km/h, all-time max reported by the platform
	DistanceTotal sql.NullFloat64 // metres
	TotalTime     sql.NullFloat64
	EntriesZ6     sql.NullFloat64 // number of sprint efforts

	// HSR is zone 5 + zone 6 with missing treated as 0. Set by the loader.
	HSR float64

	// Label is a synthetic group tag used by two-group comparisons.
	Label string
}

// FullLabel returns "Name (team)" for display.
func (r SessionRecord) FullLabel() string {
	if r.Team == "" {
		return r.DisplayName
	}
	return r.DisplayName + " (" + r.Team + ")"
}

// PositionOr returns the record's position, or def when missing.
func (r SessionRecord) PositionOr(def string) string {
	if r.Position.Valid && r.Position.String != "" {
		return r.Position.String
	}
	return def
}

// Value returns the metric value for this record and whether it is present.
// HSR is always present.
func (r SessionRecord) Value(m Metric) (float64, bool) {
	var v sql.NullFloat64
	switch m {
	case MetricHSR:
		return r.HSR, true
	case MetricZ5:
		v = r.DistanceZ5
	case MetricZ6:
		v = r.DistanceZ6
	case MetricMaxSpeed:
		v = r.MaxSpeed
	case MetricAllMaxSpeed:
		v = r.AllMaxSpeed
	case MetricDistanceTotal:
		v = r.DistanceTotal
	case MetricTotalTime:
		v = r.TotalTime
	case MetricEntriesZ6:
		v = r.EntriesZ6
	}
	return v.Float64, v.Valid
}

// GroupValue returns the value of the given grouping key for this record.
// The second return is false when the record has no value for the key.
func (r SessionRecord) GroupValue(k GroupKey) (string, bool) {
	var s string
	switch k {
	case GroupPlayer:
		s = r.DisplayName
	case GroupTeam:
		s = r.Team
	case GroupPosition:
		if !r.Position.Valid {
			return "", false
		}
		s = r.Position.String
	case GroupSessionType:
		s = r.SessionType
	case GroupLabel:
		s = r.Label
	}
	return s, s != ""
}

// ---- Metrics and grouping keys ----

// Metric names a numeric column that can be aggregated.
type Metric string

const (
	MetricZ5            Metric = ColDistanceZ5
	MetricZ6            Metric = ColDistanceZ6
	MetricHSR           Metric = "distanceHSR"
	MetricMaxSpeed      Metric = ColMaxSpeed
	MetricAllMaxSpeed   Metric = ColAllMaxSpeed
	MetricDistanceTotal Metric = ColDistanceTotal
	MetricTotalTime     Metric = ColTotalTime
	MetricEntriesZ6     Metric = ColEntriesZ6
)

var allMetrics = []Metric{
	MetricZ5, MetricZ6, MetricHSR, MetricMaxSpeed, MetricAllMaxSpeed,
	MetricDistanceTotal, MetricTotalTime, MetricEntriesZ6,
}

// Metrics returns every known metric.
func Metrics() []Metric {
	return slices.Clone(allMetrics)
}

// ParseMetric resolves a metric name. Unknown names are a ConfigurationError.
func ParseMetric(name string) (Metric, error) {
	for _, m := range allMetrics {
		if strings.EqualFold(string(m), name) {
			return m, nil
		}
	}
	return "", &ConfigurationError{Kind: "metric", Name: name}
}

// Known reports whether m is one of the known metrics.
func (m Metric) Known() bool {
	return slices.Contains(allMetrics, m)
}

// Unit returns the display unit for the metric.
func (m Metric) Unit() string {
	switch m {
	case MetricMaxSpeed, MetricAllMaxSpeed:
		return "km/h"
	case MetricTotalTime:
		return "min"
	case MetricEntriesZ6:
		return ""
	default:
		return "m"
	}
}

// Title returns a short human-readable name for the metric.
func (m Metric) Title() string {
	switch m {
	case MetricZ5:
		return "Distance Z5"
	case MetricZ6:
		return "Sprint distance Z6"
	case MetricHSR:
		return "High-speed running (Z5+Z6)"
	case MetricMaxSpeed:
		return "Max speed"
	case MetricAllMaxSpeed:
		return "All-time max speed"
	case MetricDistanceTotal:
		return "Total distance"
	case MetricTotalTime:
		return "Session time"
	case MetricEntriesZ6:
		return "Sprint efforts Z6"
	}
	return string(m)
}

// GroupKey names the attribute used to partition records for comparison.
type GroupKey string

const (
	GroupPlayer      GroupKey = ColDisplayName
	GroupTeam        GroupKey = ColTeam
	GroupPosition    GroupKey = ColPosition
	GroupSessionType GroupKey = ColSessionType
	// GroupLabel is the synthetic key set by two-group comparisons.
	GroupLabel GroupKey = "group"
)

var allGroupKeys = []GroupKey{GroupPlayer, GroupTeam, GroupPosition, GroupSessionType, GroupLabel}

// ParseGroupKey resolves a group key name. Unknown names are a ConfigurationError.
func ParseGroupKey(name string) (GroupKey, error) {
	for _, k := range allGroupKeys {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}
	return "", &ConfigurationError{Kind: "group key", Name: name}
}

// Known reports whether k is one of the known group keys.
func (k GroupKey) Known() bool {
	return slices.Contains(allGroupKeys, k)
}

// ---- Aggregated output ----

// Statistic is the name of a per-group summary statistic.
type Statistic string

const (
	StatMean   Statistic = "mean"
	StatMedian Statistic = "median"
)

// Label returns the display label for the statistic.
func (s Statistic) Label() string {
	switch s {
	case StatMean:
		return "Mean"
	case StatMedian:
		return "Median"
	}
	return string(s)
}

// GroupedStat is one row of the long-form aggregation table.
// Value is NaN when the group had no non-missing values.
type GroupedStat struct {
	Group string
	Stat  Statistic
	Value float64
}
