package loader

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-gps-metrics/internal/model"
)

// numericField binds a source column to the record field it populates.
type numericField struct {
	column      string
	nonNegative bool
	field       func(*model.SessionRecord) *sql.NullFloat64
}

// numericSchema lists every numeric column that is coerced on load.
var numericSchema = []numericField{
	{model.ColDistanceZ5, true, func(r *model.SessionRecord) *sql.NullFloat64 { return &r.DistanceZ5 }},
	{model.ColDistanceZ6, true, func(r *model.SessionRecord) *sql.NullFloat64 { return &r.DistanceZ6 }},
	{model.ColMaxSpeed, true, func(r *model.SessionRecord) *sql.NullFloat64 { return &r.MaxSpeed }},
	{model.ColAllMaxSpeed, true, func(r *model.SessionRecord) *sql.NullFloat64 { return &r.AllMaxSpeed }},
	{model.ColDistanceTotal, true, func(r *model.SessionRecord) *sql.NullFloat64 { return &r.DistanceTotal }},
	{model.ColTotalTime, false, func(r *model.SessionRecord) *sql.NullFloat64 { return &r.TotalTime }},
	{model.ColEntriesZ6, true, func(r *model.SessionRecord) *sql.NullFloat64 { return &r.EntriesZ6 }},
}

// dateLayouts are tried in order when parsing sessionDate.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

// Normalize converts raw rows into session records. Cells that fail numeric or
// date parsing become missing and are reported as warnings; they never abort
// the load. A source with no rows or without the required columns yields an
// empty dataset and an *model.IngestionError.
func Normalize(source string, columns []string, rows []map[string]string) (*model.Dataset, error) {
	ds := model.NewDataset(columns, nil)
	ds.Source = source

	if len(rows) == 0 {
		return ds, &model.IngestionError{Source: source, Reason: "no rows"}
	}
	var missing []string
	for _, c := range model.RequiredColumns {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return ds, &model.IngestionError{
			Source: source,
			Reason: "required columns absent: " + strings.Join(missing, ", "),
		}
	}

	ds.TotalRows = len(rows)
	ds.Records = make([]model.SessionRecord, 0, len(rows))
	for i, row := range rows {
		rec, warns := normalizeRow(i+1, row)
		ds.Records = append(ds.Records, rec)
		ds.Warnings = append(ds.Warnings, warns...)
	}
	return ds, nil
}

func normalizeRow(rowNum int, row map[string]string) (model.SessionRecord, []model.CoercionWarning) {
	var warns []model.CoercionWarning
	rec := model.SessionRecord{
		DisplayName: strings.TrimSpace(row[model.ColDisplayName]),
		Team:        strings.TrimSpace(row[model.ColTeam]),
		SessionType: strings.TrimSpace(row[model.ColSessionType]),
	}
	if pos := strings.TrimSpace(row[model.ColPosition]); pos != "" {
		rec.Position = sql.NullString{String: pos, Valid: true}
	}

	if raw, ok := row[model.ColSessionDate]; ok {
		t, valid := parseDate(raw)
		if !valid {
			warns = append(warns, model.CoercionWarning{
				Row: rowNum, Column: model.ColSessionDate, Value: raw, Reason: "is not a date",
			})
		}
		rec.SessionDate = t
	}

	for _, f := range numericSchema {
		raw, ok := row[f.column]
		if !ok {
			continue
		}
		v, reason := parseFloat(raw, f.nonNegative)
		if reason != "" {
			warns = append(warns, model.CoercionWarning{
				Row: rowNum, Column: f.column, Value: raw, Reason: reason,
			})
		}
		*f.field(&rec) = v
	}

	rec.HSR = ComputeHSR(rec)
	return rec, warns
}

// ComputeHSR returns high-speed running distance: zone 5 plus zone 6, with a
// missing zone counted as zero.
func ComputeHSR(r model.SessionRecord) float64 {
	var hsr float64
	if r.DistanceZ5.Valid {
		hsr += r.DistanceZ5.Float64
	}
	if r.DistanceZ6.Valid {
		hsr += r.DistanceZ6.Float64
	}
	return hsr
}

// parseFloat coerces a cell. An empty or "nan" cell is missing without a
// reason; any other failure returns a non-empty reason.
func parseFloat(raw string, nonNegative bool) (sql.NullFloat64, string) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return sql.NullFloat64{}, ""
	}
	// Decimal comma exports ("1234,5").
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, "is not a number"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}, "is not finite"
	}
	if nonNegative && v < 0 {
		return sql.NullFloat64{}, "is negative"
	}
	return sql.NullFloat64{Float64: v, Valid: true}, ""
}

// parseDate returns a missing date with valid=true for empty cells, and
// valid=false when a non-empty cell matches no known layout.
func parseDate(raw string) (t sql.NullTime, valid bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return sql.NullTime{}, true
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: parsed, Valid: true}, true
		}
	}
	return sql.NullTime{}, false
}

// NumericColumns returns the numeric columns coerced on load.
func NumericColumns() []string {
	cols := make([]string, len(numericSchema))
	for i, f := range numericSchema {
		cols[i] = f.column
	}
	return cols
}
