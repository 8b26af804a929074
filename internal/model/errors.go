package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData marks a load that produced nothing usable downstream.
	ErrNoData = errors.New("no data available")
	// ErrConfiguration marks a caller error: unknown or absent metric/column.
	ErrConfiguration = errors.New("configuration error")
)

// IngestionError is returned when a source cannot produce any records.
// It matches ErrNoData with errors.Is.
type IngestionError struct {
	Source string
	Reason string
	Err    error
}

func (e *IngestionError) Error() string {
	msg := fmt.Sprintf("ingest %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IngestionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNoData}
	}
	return []error{ErrNoData, e.Err}
}

// ConfigurationError reports a metric, group key or column that does not
// exist in the schema. It matches ErrConfiguration with errors.Is.
type ConfigurationError struct {
	Kind string // "metric", "group key" or "column"
	Name string
	// Absent is set when the name is known but the source did not provide it.
	Absent bool
}

func (e *ConfigurationError) Error() string {
	if e.Absent {
		return fmt.Sprintf("%s %q is not present in the data source", e.Kind, e.Name)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// CoercionWarning records a cell that failed numeric or date parsing and was
// treated as missing.
type CoercionWarning struct {
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Reason string
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("row %d, column %s: %q %s, treated as missing", w.Row, w.Column, w.Value, w.Reason)
}
