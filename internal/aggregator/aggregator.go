package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-gps-metrics/internal/model"
)

// Aggregate partitions ds by key and computes the mean and median of metric
// within each partition. Missing values are ignored; a partition with no
// values yields NaN for both statistics. Records without a value for key are
// skipped. Groups are emitted in ascending lexical order, each as a mean row
// followed by a median row.
func Aggregate(ds *model.Dataset, metric model.Metric, key model.GroupKey) ([]model.GroupedStat, error) {
	if err := checkSchema(ds, metric, key); err != nil {
		return nil, err
	}

	values := make(map[string][]float64)
	for _, r := range ds.Records {
		g, ok := r.GroupValue(key)
		if !ok {
			continue
		}
		vs := values[g] // keeps empty groups present
		if v, ok := r.Value(metric); ok {
			vs = append(vs, v)
		}
		values[g] = vs
	}

	groups := make([]string, 0, len(values))
	for g := range values {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	out := make([]model.GroupedStat, 0, 2*len(groups))
	for _, g := range groups {
		vs := values[g]
		out = append(out,
			model.GroupedStat{Group: g, Stat: model.StatMean, Value: Mean(vs)},
			model.GroupedStat{Group: g, Stat: model.StatMedian, Value: Median(vs)},
		)
	}
	return out, nil
}

// Delta returns mean(metric | key=a) − mean(metric | key=b). Positive means a
// exceeds b. NaN in either mean propagates to the result.
func Delta(ds *model.Dataset, metric model.Metric, key model.GroupKey, a, b string) (float64, error) {
	if err := checkSchema(ds, metric, key); err != nil {
		return 0, err
	}
	return Mean(groupValues(ds, metric, key, a)) - Mean(groupValues(ds, metric, key, b)), nil
}

// CompareTwoGroups tags a and b with their labels under the synthetic group
// key, concatenates them and aggregates metric by label.
func CompareTwoGroups(a, b *model.Dataset, metric model.Metric, labelA, labelB string) ([]model.GroupedStat, error) {
	return Aggregate(Combine(a, b, labelA, labelB), metric, model.GroupLabel)
}

// Combine labels a and b and concatenates them into one dataset grouped by
// model.GroupLabel.
func Combine(a, b *model.Dataset, labelA, labelB string) *model.Dataset {
	return model.Concat(a.Labeled(labelA), b.Labeled(labelB))
}

// Summary holds the scalar statistics of one group.
type Summary struct {
	Group  string
	Count  int // non-missing values
	Mean   float64
	Median float64
}

// Summarize returns the statistics of metric for records where key=value.
func Summarize(ds *model.Dataset, metric model.Metric, key model.GroupKey, value string) (Summary, error) {
	if err := checkSchema(ds, metric, key); err != nil {
		return Summary{}, err
	}
	vs := groupValues(ds, metric, key, value)
	return Summary{Group: value, Count: len(vs), Mean: Mean(vs), Median: Median(vs)}, nil
}

// Lookup returns the value of stat for group in a long-form table, or NaN.
func Lookup(stats []model.GroupedStat, group string, stat model.Statistic) float64 {
	for _, s := range stats {
		if s.Group == group && s.Stat == stat {
			return s.Value
		}
	}
	return math.NaN()
}

// Mean returns the arithmetic mean of vs, or NaN when vs is empty.
func Mean(vs []float64) float64 {
	if len(vs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// Median returns the median of vs, or NaN when vs is empty. vs is not modified.
func Median(vs []float64) float64 {
	if len(vs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)
	return median(sorted)
}

// median returns the median of a pre-sorted (ascending), non-empty slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func groupValues(ds *model.Dataset, metric model.Metric, key model.GroupKey, value string) []float64 {
	var vs []float64
	for _, r := range ds.Records {
		if g, ok := r.GroupValue(key); !ok || g != value {
			continue
		}
		if v, ok := r.Value(metric); ok {
			vs = append(vs, v)
		}
	}
	return vs
}

// checkSchema rejects metrics and keys that are unknown or that the source did
// not provide. This is independent of whether any values are present.
func checkSchema(ds *model.Dataset, metric model.Metric, key model.GroupKey) error {
	if !metric.Known() {
		return &model.ConfigurationError{Kind: "metric", Name: string(metric)}
	}
	if !key.Known() {
		return &model.ConfigurationError{Kind: "group key", Name: string(key)}
	}
	if ds == nil || !ds.HasMetric(metric) {
		return &model.ConfigurationError{Kind: "metric", Name: string(metric), Absent: true}
	}
	if !ds.HasGroupKey(key) {
		return &model.ConfigurationError{Kind: "group key", Name: string(key), Absent: true}
	}
	return nil
}
