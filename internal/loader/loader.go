package loader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pable/go-gps-metrics/internal/cache"
	"github.com/pable/go-gps-metrics/internal/model"
)

// Loader reads, normalizes and filters session exports, memoizing the result
// by source content.
type Loader struct {
	cache  cache.Cache
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for cache and coercion diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// WithClock overrides the clock used to stamp loaded datasets.
func WithClock(now func() time.Time) Option {
	return func(ld *Loader) { ld.now = now }
}

// New returns a Loader backed by c. A nil cache disables memoization.
func New(c cache.Cache, opts ...Option) *Loader {
	if c == nil {
		c = cache.Nop{}
	}
	ld := &Loader{cache: c, logger: slog.Default(), now: time.Now}
	for _, o := range opts {
		o(ld)
	}
	return ld
}

// Load reads the export at path and returns its official-match records.
// Any failure to produce records is an *model.IngestionError.
func (l *Loader) Load(ctx context.Context, path string) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return &model.Dataset{Source: path}, &model.IngestionError{Source: path, Reason: "unreadable source", Err: err}
	}
	return l.LoadBytes(ctx, path, content)
}

// LoadBytes is Load for content already in memory.
func (l *Loader) LoadBytes(ctx context.Context, source string, content []byte) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := cache.SourceKey(content)

	cached, ok, err := l.cache.Lookup(key)
	if err != nil {
		// A broken cache only costs a re-parse.
		l.logger.Warn("cache lookup failed", "source", source, "err", err)
	}
	if ok {
		l.logger.Debug("cache hit", "source", source, "key", key)
		out := *cached
		out.Source = source
		return &out, nil
	}

	ds, err := parse(source, content)
	if err != nil {
		return ds, err
	}
	ds.SourceKey = key
	ds.LoadedAt = l.now()

	l.logger.Debug("loaded source",
		"source", source, "rows", ds.TotalRows, "matches", len(ds.Records), "warnings", len(ds.Warnings))
	for _, w := range ds.Warnings {
		l.logger.Debug("coercion", "source", source, "warning", w.String())
	}

	if err := l.cache.Store(key, ds); err != nil {
		l.logger.Warn("cache store failed", "source", source, "err", err)
	}
	return ds, nil
}

func parse(source string, content []byte) (*model.Dataset, error) {
	columns, rows, err := ReadCSV(bytes.NewReader(content))
	if err != nil {
		return &model.Dataset{Source: source}, &model.IngestionError{Source: source, Reason: "malformed file", Err: err}
	}
	ds, err := Normalize(source, columns, rows)
	if err != nil {
		return ds, err
	}
	ds = OfficialMatches(ds)
	if ds.Empty() {
		return ds, &model.IngestionError{
			Source: source,
			Reason: fmt.Sprintf("none of %d sessions is an official match", ds.TotalRows),
		}
	}
	return ds, nil
}
