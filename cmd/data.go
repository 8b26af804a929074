package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pable/go-gps-metrics/internal/cache"
	"github.com/pable/go-gps-metrics/internal/loader"
	"github.com/pable/go-gps-metrics/internal/model"
	"github.com/pable/go-gps-metrics/internal/storage"
)

// memoryCacheSize bounds the in-process cache used by long-running commands.
const memoryCacheSize = 4

// openCache returns the SQLite cache when --cache-db is set, otherwise an
// in-memory one. The returned func releases it.
func openCache() (cache.Cache, func(), error) {
	if cacheDBPath == "" {
		return cache.NewMemory(memoryCacheSize), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cacheDBPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := storage.Open(cacheDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	return db, func() { db.Close() }, nil
}

// newLoader builds a Loader over the configured cache.
func newLoader() (*loader.Loader, func(), error) {
	c, closeFn, err := openCache()
	if err != nil {
		return nil, nil, err
	}
	return loader.New(c, loader.WithLogger(slog.Default())), closeFn, nil
}

// loadDataset loads the configured CSV once.
func loadDataset(ctx context.Context) (*model.Dataset, error) {
	ld, closeFn, err := newLoader()
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return loadWith(ctx, ld)
}

func loadWith(ctx context.Context, ld *loader.Loader) (*model.Dataset, error) {
	ds, err := ld.Load(ctx, csvPath)
	if errors.Is(err, model.ErrNoData) {
		return nil, fmt.Errorf("no data available, stopping: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", csvPath, err)
	}
	if n := len(ds.Warnings); n > 0 {
		slog.Warn("some cells could not be parsed and were treated as missing",
			"count", n, "hint", "run 'gpsmetrics summary' to list them")
	}
	return ds, nil
}
