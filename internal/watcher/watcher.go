package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 300 * time.Millisecond

// FileWatcher calls OnChange whenever a single file is written or recreated.
type FileWatcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(path string)
	OnError  func(err error)

	cleanPath string
	watcher   *fsnotify.Watcher
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, onChange func(path string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		Path:      path,
		Debounce:  DefaultDebounce,
		OnChange:  onChange,
		cleanPath: filepath.Clean(path),
		watcher:   w,
		done:      make(chan struct{}),
	}, nil
}

// Start watches the file's directory, which survives editors that replace the
// file on save. The watch stops when ctx is done or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(fw.cleanPath)
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}
	slog.Info("watcher starting", "path", fw.Path)

	fw.wg.Add(1)
	go fw.loop(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		slog.Info("watcher stopped", "path", fw.Path)
		close(fw.done)
		_ = fw.watcher.Close()
	})
	fw.wg.Wait()
}

func (fw *FileWatcher) loop(ctx context.Context) {
	defer fw.wg.Done()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.cleanPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			slog.Debug("file event", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(fw.Debounce)
			} else {
				timer.Reset(fw.Debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if fw.OnChange != nil {
				fw.OnChange(fw.Path)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if fw.OnError != nil {
				fw.OnError(err)
			}
		}
	}
}
