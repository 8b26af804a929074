package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pable/go-gps-metrics/internal/cache"
	"github.com/pable/go-gps-metrics/internal/model"
)

const sampleCSV = `DisplayName;team;position;sessionType;sessionDate;distanceZ5Abs;distanceZ6Abs
Alice;Pro2;Winger;Match;2025-03-01;400;120
Alice;Pro2;Winger;Match Day -1;2025-02-28;200;20
Bob;U19;Winger;Match;2025-03-01;300;abc
Carl;U19;Striker;Friendly;2025-03-02;100;10
`

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingCache struct {
	*cache.Memory
	lookups, stores int
}

func (c *countingCache) Lookup(key string) (*model.Dataset, bool, error) {
	c.lookups++
	return c.Memory.Lookup(key)
}

func (c *countingCache) Store(key string, ds *model.Dataset) error {
	c.stores++
	return c.Memory.Store(key, ds)
}

func TestLoadBytes_FiltersOfficialMatches(t *testing.T) {
	fixed := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	ld := New(nil, WithLogger(quiet), WithClock(func() time.Time { return fixed }))

	ds, err := ld.LoadBytes(context.Background(), "sample.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if ds.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", ds.TotalRows)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 official matches, got %d", len(ds.Records))
	}
	for _, r := range ds.Records {
		if r.SessionType != "Match" {
			t.Errorf("non-match record survived: %+v", r)
		}
	}
	if len(ds.Warnings) != 1 {
		t.Errorf("expected 1 coercion warning, got %v", ds.Warnings)
	}
	if !ds.LoadedAt.Equal(fixed) {
		t.Errorf("LoadedAt = %v", ds.LoadedAt)
	}
	if ds.SourceKey != cache.SourceKey([]byte(sampleCSV)) {
		t.Errorf("unexpected source key %q", ds.SourceKey)
	}
}

func TestLoadBytes_CacheHit(t *testing.T) {
	c := &countingCache{Memory: cache.NewMemory(2)}
	ld := New(c, WithLogger(quiet))
	ctx := context.Background()

	first, err := ld.LoadBytes(ctx, "a.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := ld.LoadBytes(ctx, "b.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if c.stores != 1 {
		t.Errorf("expected a single store, got %d", c.stores)
	}
	if c.lookups != 2 {
		t.Errorf("expected 2 lookups, got %d", c.lookups)
	}
	if second.Source != "b.csv" || first.Source != "a.csv" {
		t.Errorf("source not kept per load: %q %q", first.Source, second.Source)
	}
	if len(second.Records) != len(first.Records) {
		t.Errorf("cached records differ")
	}
}

func TestLoadBytes_NoOfficialMatches(t *testing.T) {
	content := "DisplayName;sessionType\nAlice;Friendly\nBob;Match Day +1\n"
	ds, err := New(nil, WithLogger(quiet)).LoadBytes(context.Background(), "f.csv", []byte(content))
	if !errors.Is(err, model.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if !ds.Empty() {
		t.Errorf("expected empty dataset")
	}
}

func TestLoadBytes_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil).LoadBytes(ctx, "x.csv", []byte(sampleCSV)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Datagps.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := New(nil, WithLogger(quiet)).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Source != path {
		t.Errorf("Source = %q", ds.Source)
	}
}

func TestLoad_Unreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	ds, err := New(nil, WithLogger(quiet)).Load(context.Background(), path)
	if !errors.Is(err, model.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the read error to be wrapped, got %v", err)
	}
	if !ds.Empty() {
		t.Errorf("expected empty dataset")
	}
}
