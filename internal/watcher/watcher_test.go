package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.csv")
	if err := os.WriteFile(path, []byte("DisplayName;sessionType\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	fw, err := New(path, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	fw.Stop()
	fw.Stop()
}

func TestFileWatcherCallsOnChangeAfterWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.csv")
	other := filepath.Join(dir, "other.csv")
	if err := os.WriteFile(path, []byte("DisplayName;sessionType\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	changed := make(chan string, 4)
	fw, err := New(path, func(p string) { changed <- p })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	fw.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := fw.Start(ctx); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer fw.Stop()

	// Writes to other files in the directory are ignored.
	if err := os.WriteFile(other, []byte("x"), 0o600); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("DisplayName;sessionType\nA;Match\n"), 0o600); err != nil {
		t.Fatalf("rewrite csv: %v", err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("OnChange path: want %s, got %s", path, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnChange")
	}
}

func TestFileWatcherStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.csv")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	fw, err := New(path, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := fw.Start(ctx); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		fw.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after context cancel")
	}
}
