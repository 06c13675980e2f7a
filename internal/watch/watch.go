// Package watch re-lints the document tree when .tex sources change.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Callback is invoked after the debounce window once at least one .tex
// file has actually changed.
type Callback func()

// Watch starts an fsnotify watcher on the document root and calls cb
// after each burst of .tex changes, debounced by the given interval. It
// runs until ctx is cancelled.
//
// New directories created at runtime are automatically added to the
// watch list. Editor save patterns that rewrite a file with identical
// content are filtered out by checksum.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	checksums := seedChecksums(root)

	// debounceTimer coalesces bursts of events into one callback.
	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	pending := false

	schedule := func() {
		pending = true
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(debounce)
			debounceCh = debounceTimer.C
		} else {
			debounceTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			if pending {
				pending = false
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".tex") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				sum, sumErr := fileChecksum(ev.Name)
				if sumErr == nil && checksums[ev.Name] == sum {
					continue
				}
				if sumErr == nil {
					checksums[ev.Name] = sum
				}
				logger.Debug("watcher: changed", slog.String("path", ev.Name))
				schedule()

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(checksums, ev.Name)
				logger.Debug("watcher: removed", slog.String("path", ev.Name))
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

// seedChecksums records the current content of every .tex file under
// root so the first spurious rewrite is recognized.
func seedChecksums(root string) map[string]string {
	checksums := make(map[string]string)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".tex") {
			return nil
		}
		if sum, sumErr := fileChecksum(path); sumErr == nil {
			checksums[path] = sum
		}
		return nil
	})
	return checksums
}

func fileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
