package loader

import (
	"errors"
	"testing"

	"github.com/pable/go-gps-metrics/internal/model"
)

func TestParseFloat(t *testing.T) {
	cases := []struct {
		raw         string
		nonNegative bool
		want        float64
		valid       bool
		reason      string
	}{
		{"12.5", true, 12.5, true, ""},
		{" 12,5 ", true, 12.5, true, ""},
		{"0", true, 0, true, ""},
		{"", true, 0, false, ""},
		{"NaN", true, 0, false, ""},
		{"abc", true, 0, false, "is not a number"},
		{"Inf", true, 0, false, "is not finite"},
		{"-3", true, 0, false, "is negative"},
		{"-3", false, -3, true, ""},
	}
	for _, tc := range cases {
		got, reason := parseFloat(tc.raw, tc.nonNegative)
		if got.Valid != tc.valid || (tc.valid && got.Float64 != tc.want) || reason != tc.reason {
			t.Errorf("parseFloat(%q, %v) = (%v, %q), want (%v valid=%v, %q)",
				tc.raw, tc.nonNegative, got, reason, tc.want, tc.valid, tc.reason)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2025-03-01", "2025-03-01 18:30:00", "01/03/2025", "2025-03-01T18:30:00Z"} {
		d, ok := parseDate(raw)
		if !ok || !d.Valid {
			t.Errorf("parseDate(%q) should parse", raw)
			continue
		}
		if d.Time.Year() != 2025 || d.Time.Month() != 3 || d.Time.Day() != 1 {
			t.Errorf("parseDate(%q) = %v", raw, d.Time)
		}
	}
	if d, ok := parseDate(""); !ok || d.Valid {
		t.Errorf("empty date should be missing without a warning")
	}
	if d, ok := parseDate("yesterday"); ok || d.Valid {
		t.Errorf("garbage date should be missing with a warning")
	}
}

func TestNormalize_CoercesAndWarns(t *testing.T) {
	columns := []string{
		model.ColDisplayName, model.ColTeam, model.ColPosition, model.ColSessionType,
		model.ColSessionDate, model.ColDistanceZ5, model.ColDistanceZ6, model.ColMaxSpeed,
	}
	rows := []map[string]string{
		{
			model.ColDisplayName: " Alice ", model.ColTeam: "Pro2", model.ColPosition: "Winger",
			model.ColSessionType: "Match", model.ColSessionDate: "2025-03-01",
			model.ColDistanceZ5: "400", model.ColDistanceZ6: "120,5", model.ColMaxSpeed: "31.2",
		},
		{
			model.ColDisplayName: "Bob", model.ColTeam: "U19", model.ColPosition: "",
			model.ColSessionType: "Match", model.ColSessionDate: "soon",
			model.ColDistanceZ5: "abc", model.ColDistanceZ6: "", model.ColMaxSpeed: "-1",
		},
	}

	ds, err := Normalize("test.csv", columns, rows)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if ds.TotalRows != 2 || len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d (total %d)", len(ds.Records), ds.TotalRows)
	}

	alice := ds.Records[0]
	if alice.DisplayName != "Alice" {
		t.Errorf("name not trimmed: %q", alice.DisplayName)
	}
	if alice.HSR != 520.5 {
		t.Errorf("alice HSR = %v, want 520.5", alice.HSR)
	}
	if !alice.SessionDate.Valid || !alice.Position.Valid {
		t.Errorf("alice date/position should be present: %+v", alice)
	}

	bob := ds.Records[1]
	if bob.DistanceZ5.Valid || bob.DistanceZ6.Valid || bob.MaxSpeed.Valid {
		t.Errorf("bob's bad cells should be missing: %+v", bob)
	}
	if bob.HSR != 0 {
		t.Errorf("bob HSR = %v, want 0", bob.HSR)
	}
	if bob.Position.Valid {
		t.Errorf("empty position should be missing")
	}

	// "soon", "abc" and "-1" warn; the empty zone 6 cell does not.
	if len(ds.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(ds.Warnings), ds.Warnings)
	}
	for _, w := range ds.Warnings {
		if w.Row != 2 {
			t.Errorf("warning on wrong row: %v", w)
		}
	}
}

func TestNormalize_MissingColumnsStayMissing(t *testing.T) {
	columns := []string{model.ColDisplayName, model.ColSessionType, model.ColDistanceZ6}
	rows := []map[string]string{
		{model.ColDisplayName: "Alice", model.ColSessionType: "Match", model.ColDistanceZ6: "100"},
	}
	ds, err := Normalize("test.csv", columns, rows)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	r := ds.Records[0]
	if r.DistanceZ5.Valid {
		t.Errorf("absent column should be missing")
	}
	if r.HSR != 100 {
		t.Errorf("HSR with absent zone 5 = %v, want 100", r.HSR)
	}
	if !ds.HasMetric(model.MetricHSR) || ds.HasMetric(model.MetricZ5) {
		t.Errorf("unexpected schema %v", ds.Columns)
	}
	if len(ds.Warnings) != 0 {
		t.Errorf("absent columns must not warn: %v", ds.Warnings)
	}
}

func TestNormalize_IngestionErrors(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		ds, err := Normalize("empty.csv", []string{model.ColDisplayName, model.ColSessionType}, nil)
		if !errors.Is(err, model.ErrNoData) {
			t.Fatalf("expected ErrNoData, got %v", err)
		}
		if !ds.Empty() {
			t.Errorf("expected empty dataset")
		}
	})
	t.Run("required column absent", func(t *testing.T) {
		rows := []map[string]string{{model.ColDisplayName: "Alice"}}
		_, err := Normalize("bad.csv", []string{model.ColDisplayName}, rows)
		var ie *model.IngestionError
		if !errors.As(err, &ie) {
			t.Fatalf("expected IngestionError, got %v", err)
		}
		if ie.Source != "bad.csv" {
			t.Errorf("unexpected source %q", ie.Source)
		}
	})
}

func TestComputeHSR(t *testing.T) {
	r := model.SessionRecord{}
	if got := ComputeHSR(r); got != 0 {
		t.Errorf("both missing: got %v, want 0", got)
	}
	r.DistanceZ5.Float64, r.DistanceZ5.Valid = 250, true
	if got := ComputeHSR(r); got != 250 {
		t.Errorf("z6 missing: got %v, want 250", got)
	}
	r.DistanceZ6.Float64, r.DistanceZ6.Valid = 50, true
	if got := ComputeHSR(r); got != 300 {
		t.Errorf("both present: got %v, want 300", got)
	}
}
