// Package watch reports changes to the mood log file made by other processes.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/moodmate/internal/checksum"
)

// EventExternalChange is the callback kind for a foreign write.
const EventExternalChange = "log.external_change"

// debounce collapses the burst of events an atomic rename produces.
const debounce = 150 * time.Millisecond

// EventCallback is called after a foreign write is detected.
type EventCallback func(kind string, data any)

// ChecksumSource reports the digest of the last document this process wrote.
type ChecksumSource interface {
	Checksum() string
}

// Change describes a foreign write.
type Change struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Removed  bool   `json:"removed,omitempty"`
}

// Watch observes the directory holding file and, whenever file's content
// stops matching src.Checksum(), logs a warning and calls cb. The mood log
// is loaded once at startup, so the in-memory log is not reloaded; the next
// save overwrites the foreign change. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, file string, src ChecksumSource, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(file)
	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("file", file))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			check(file, src, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(file) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func check(file string, src ChecksumSource, logger *slog.Logger, cb EventCallback) {
	data, err := os.ReadFile(file)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("watcher: read failed", slog.String("file", file), slog.String("error", err.Error()))
			return
		}
		if src.Checksum() == "" {
			return
		}
		logger.Warn("watcher: mood log removed by another process", slog.String("file", file))
		notify(cb, Change{Path: file, Removed: true})
		return
	}

	sum := checksum.Sum(data)
	if sum == src.Checksum() {
		return
	}
	logger.Warn("watcher: mood log changed by another process; next save overwrites it",
		slog.String("file", file), slog.String("checksum", sum))
	notify(cb, Change{Path: file, Checksum: sum})
}

func notify(cb EventCallback, c Change) {
	if cb != nil {
		cb(EventExternalChange, c)
	}
}
