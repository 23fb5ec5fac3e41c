package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reports content changes of a single file.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *slog.Logger
	last     uint64
}

// NewWatcher returns a watcher for path.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: abs, debounce: defaultDebounce, log: logger}, nil
}

// Fingerprint hashes the file's current content.
func Fingerprint(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return xxh3.Hash(data), nil
}

// Run blocks until ctx is done, calling onChange after each debounced
// change of the file's content. The directory is watched rather than the
// file so editors that replace the file on save are followed.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch dir %s: %w", dir, err)
	}
	if fp, err := Fingerprint(w.path); err == nil {
		w.last = fp
	}
	w.log.Info("watching source file", "path", w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs != w.path {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			fp, err := Fingerprint(w.path)
			if err != nil {
				w.log.Debug("source file unreadable", "path", w.path, "error", err)
				continue
			}
			if fp == w.last {
				continue
			}
			w.last = fp
			w.log.Info("source file changed", "path", w.path)
			onChange()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "path", w.path, "error", err)
		}
	}
}
