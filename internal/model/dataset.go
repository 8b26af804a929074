package model

import (
	"slices"
	"time"
)

// Dataset is a normalized record set together with the schema it was read with.
type Dataset struct {
	Source    string   // file path or other source description
	SourceKey string   // content hash identifying the source
	Columns   []string // source columns present, sorted
	Records   []SessionRecord
	Warnings  []CoercionWarning
	TotalRows int // rows read before filtering
	LoadedAt  time.Time

	// labeled is set once records carry a synthetic group label.
	labeled bool
}

// HasColumn reports whether the source provided the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, found := slices.BinarySearch(d.Columns, name)
	return found
}

// HasMetric reports whether the metric can be computed from this dataset.
// The derived HSR metric is available when either zone column is present.
func (d *Dataset) HasMetric(m Metric) bool {
	if m == MetricHSR {
		return d.HasColumn(ColDistanceZ5) || d.HasColumn(ColDistanceZ6)
	}
	return d.HasColumn(string(m))
}

// HasGroupKey reports whether records can be partitioned by k.
func (d *Dataset) HasGroupKey(k GroupKey) bool {
	if k == GroupLabel {
		return d.labeled
	}
	return d.HasColumn(string(k))
}

// Empty reports whether the dataset holds no records.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// WithRecords returns a dataset sharing d's schema but holding recs.
func (d *Dataset) WithRecords(recs []SessionRecord) *Dataset {
	out := *d
	out.Records = recs
	return &out
}

// Where returns the subset of records matching keep.
func (d *Dataset) Where(keep func(SessionRecord) bool) *Dataset {
	var recs []SessionRecord
	for _, r := range d.Records {
		if keep(r) {
			recs = append(recs, r)
		}
	}
	return d.WithRecords(recs)
}

// Labeled returns a copy of d where every record is tagged with label under
// the synthetic GroupLabel key.
func (d *Dataset) Labeled(label string) *Dataset {
	recs := make([]SessionRecord, len(d.Records))
	for i, r := range d.Records {
		r.Label = label
		recs[i] = r
	}
	out := d.WithRecords(recs)
	out.labeled = true
	return out
}

// Concat returns a dataset holding the records of a followed by those of b.
// Columns are the intersection of both schemas.
func Concat(a, b *Dataset) *Dataset {
	var cols []string
	for _, c := range a.Columns {
		if b.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	recs := make([]SessionRecord, 0, len(a.Records)+len(b.Records))
	recs = append(recs, a.Records...)
	recs = append(recs, b.Records...)
	return &Dataset{
		Source:  a.Source,
		Columns: cols,
		Records: recs,
		labeled: a.labeled && b.labeled,
	}
}

// NewDataset builds a dataset over recs with the given columns.
func NewDataset(columns []string, recs []SessionRecord) *Dataset {
	cols := slices.Clone(columns)
	slices.Sort(cols)
	cols = slices.Compact(cols)
	return &Dataset{Columns: cols, Records: recs, TotalRows: len(recs)}
}
