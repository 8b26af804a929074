package model

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("DISTANCEZ6ABS")
	if err != nil || m != MetricZ6 {
		t.Errorf("ParseMetric case-insensitive: got %q, %v", m, err)
	}
	_, err = ParseMetric("heartRate")
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	var ce *ConfigurationError
	if !errors.As(err, &ce) || ce.Absent || ce.Name != "heartRate" {
		t.Errorf("unexpected error detail %+v", ce)
	}
}

func TestParseGroupKey(t *testing.T) {
	k, err := ParseGroupKey("Position")
	if err != nil || k != GroupPosition {
		t.Errorf("got %q, %v", k, err)
	}
	if _, err := ParseGroupKey("weather"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if GroupKey("Position").Known() {
		t.Errorf("Known must match exactly")
	}
}

func TestRecordValueAndGroup(t *testing.T) {
	r := SessionRecord{
		DisplayName: "Alice",
		Team:        "Pro2",
		SessionType: "Match",
		DistanceZ6:  sql.NullFloat64{Float64: 80, Valid: true},
		HSR:         0,
	}
	if v, ok := r.Value(MetricZ6); !ok || v != 80 {
		t.Errorf("Value(Z6) = %v, %v", v, ok)
	}
	if _, ok := r.Value(MetricZ5); ok {
		t.Errorf("missing Z5 should not be present")
	}
	if v, ok := r.Value(MetricHSR); !ok || v != 0 {
		t.Errorf("HSR is always present, got %v, %v", v, ok)
	}
	if _, ok := r.GroupValue(GroupPosition); ok {
		t.Errorf("missing position should not group")
	}
	if g, ok := r.GroupValue(GroupTeam); !ok || g != "Pro2" {
		t.Errorf("GroupValue(team) = %q, %v", g, ok)
	}
	if r.FullLabel() != "Alice (Pro2)" {
		t.Errorf("FullLabel = %q", r.FullLabel())
	}
	if r.PositionOr("Unknown") != "Unknown" {
		t.Errorf("PositionOr fallback not used")
	}
}

func TestDatasetSchema(t *testing.T) {
	ds := NewDataset([]string{ColSessionType, ColDisplayName, ColDistanceZ5, ColDisplayName}, nil)
	if len(ds.Columns) != 3 {
		t.Errorf("columns not deduplicated: %v", ds.Columns)
	}
	if !ds.HasColumn(ColDistanceZ5) || ds.HasColumn(ColTeam) {
		t.Errorf("HasColumn wrong for %v", ds.Columns)
	}
	if !ds.HasMetric(MetricHSR) {
		t.Errorf("HSR should be available from zone 5 alone")
	}
	if ds.HasMetric(MetricMaxSpeed) {
		t.Errorf("maxSpeed was not provided")
	}
	if ds.HasGroupKey(GroupLabel) {
		t.Errorf("unlabeled dataset cannot group by label")
	}
	if !ds.Empty() {
		t.Errorf("expected empty")
	}
}

func TestLabeledAndConcat(t *testing.T) {
	a := NewDataset([]string{ColDisplayName, ColSessionType, ColDistanceZ6, ColTeam},
		[]SessionRecord{{DisplayName: "a"}, {DisplayName: "b"}})
	b := NewDataset([]string{ColDisplayName, ColSessionType, ColDistanceZ6},
		[]SessionRecord{{DisplayName: "c"}})

	la := a.Labeled("A")
	if a.Records[0].Label != "" {
		t.Errorf("Labeled must not modify its receiver")
	}
	if !la.HasGroupKey(GroupLabel) {
		t.Errorf("labeled dataset should group by label")
	}

	if Concat(la, b).HasGroupKey(GroupLabel) {
		t.Errorf("concat with an unlabeled side is not labeled")
	}
	c := Concat(la, b.Labeled("B"))
	if !c.HasGroupKey(GroupLabel) {
		t.Errorf("concat of labeled sides should be labeled")
	}
	if len(c.Records) != 3 || c.Records[2].Label != "B" {
		t.Errorf("unexpected records %+v", c.Records)
	}
	if c.HasColumn(ColTeam) || !c.HasColumn(ColDistanceZ6) {
		t.Errorf("columns should be the intersection, got %v", c.Columns)
	}
}

func TestWhere(t *testing.T) {
	ds := NewDataset([]string{ColDisplayName}, []SessionRecord{
		{DisplayName: "a", Team: "Pro2"}, {DisplayName: "b", Team: "U19"},
	})
	ds.Warnings = []CoercionWarning{{Row: 1}}
	got := ds.Where(func(r SessionRecord) bool { return r.Team == "U19" })
	if len(got.Records) != 1 || got.Records[0].DisplayName != "b" {
		t.Errorf("unexpected %+v", got.Records)
	}
	if len(got.Warnings) != 1 || got.TotalRows != 2 {
		t.Errorf("Where should keep dataset metadata")
	}
}

func TestErrors(t *testing.T) {
	wrapped := fmt.Errorf("wrapped: %w", &IngestionError{Source: "x.csv", Reason: "no rows"})
	if !errors.Is(wrapped, ErrNoData) {
		t.Errorf("IngestionError should match ErrNoData")
	}
	if errors.Is(wrapped, ErrConfiguration) {
		t.Errorf("IngestionError is not a configuration error")
	}

	inner := errors.New("boom")
	ie := &IngestionError{Source: "x.csv", Reason: "malformed file", Err: inner}
	if !errors.Is(ie, inner) || !strings.Contains(ie.Error(), "boom") {
		t.Errorf("IngestionError should wrap its cause: %v", ie)
	}

	ce := &ConfigurationError{Kind: "metric", Name: "maxSpeed", Absent: true}
	if !strings.Contains(ce.Error(), "not present") {
		t.Errorf("unexpected message %q", ce.Error())
	}

	w := CoercionWarning{Row: 3, Column: ColDistanceZ6, Value: "abc", Reason: "is not a number"}
	if got := w.String(); !strings.Contains(got, "row 3") || !strings.Contains(got, `"abc"`) {
		t.Errorf("unexpected warning text %q", got)
	}
}
