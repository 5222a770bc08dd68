// DBIMGTOOL ⸻ internal/daemon/watcher.go
// file system monitoring for the background sanitizer

package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// processes a detected file
type FileHandler func(path string) error

// configures watcher behavior
type WatchOptions struct {
	// extensions to monitor
	Extensions []string

	// directories to exclude
	ExcludeDirs []string

	// min time since last modification before processing, so
	// half-written downloads are not picked up
	SettleAge time.Duration

	// watch subdirectories too
	Recursive bool
}

// Watcher monitors directories and hands settled image files to its
// handler
type Watcher struct {
	watcher *fsnotify.Watcher
	dirs    []string
	options WatchOptions
	handler FileHandler
	logger  *Logger

	mu        sync.Mutex
	processed map[string]time.Time
	running   bool
}

func NewWatcher(dirs []string, options WatchOptions, handler FileHandler, logger *Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	var validDirs []string
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			logger.Warn("skipping invalid directory %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			logger.Warn("skipping non-directory path %s", dir)
			continue
		}
		validDirs = append(validDirs, dir)
	}

	if len(validDirs) == 0 {
		fsWatcher.Close()
		return nil, fmt.Errorf("no valid directories to watch")
	}

	return &Watcher{
		watcher:   fsWatcher,
		dirs:      validDirs,
		options:   options,
		handler:   handler,
		logger:    logger,
		processed: make(map[string]time.Time),
	}, nil
}

func (w *Watcher) Start() error {
	if w.running {
		return fmt.Errorf("watcher already running")
	}

	for _, dir := range w.dirs {
		if w.options.Recursive {
			w.watchTree(dir)
		} else if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch directory %s: %v", dir, err)
		}
	}

	go w.processEvents()
	go w.periodicCleanup()

	w.running = true
	w.logger.Info("file watcher started")

	return nil
}

func (w *Watcher) Stop() error {
	if !w.running {
		return nil
	}

	err := w.watcher.Close()
	w.running = false
	w.logger.Info("file watcher stopped")

	return err
}

func (w *Watcher) watchTree(root string) {
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			w.logger.Warn("error accessing path %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if w.excluded(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		w.logger.Error("error walking directory %s: %v", root, err)
	}
}

func (w *Watcher) excluded(path string) bool {
	for _, exclude := range w.options.ExcludeDirs {
		if exclude != "" && strings.Contains(path, exclude) {
			return true
		}
	}
	return false
}

// matchesExtension checks the file against the monitored set
func (w *Watcher) matchesExtension(path string) bool {
	if len(w.options.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range w.options.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// shouldProcess applies the extension filter, the settle age and the
// recently-processed guard
func (w *Watcher) shouldProcess(path string) bool {
	if !w.matchesExtension(path) {
		return false
	}

	if w.options.SettleAge > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return false
		}
		if time.Since(info.ModTime()) < w.options.SettleAge {
			return false
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if last, exists := w.processed[path]; exists && time.Since(last) < time.Minute {
		return false
	}

	return true
}

func (w *Watcher) markProcessed(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.processed[path] = time.Now()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			path := event.Name

			// newly created subdirectory in recursive mode
			if w.options.Recursive {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if !w.excluded(path) {
						w.watchTree(path)
					}
					continue
				}
			}

			if !w.shouldProcess(path) {
				continue
			}

			w.markProcessed(path)
			if err := w.handler(path); err != nil {
				w.logger.Warn("handler failed for %s: %v", path, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error: %v", err)
		}
	}
}

// periodicCleanup drops stale entries from the processed map
func (w *Watcher) periodicCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if !w.running {
			return
		}

		w.mu.Lock()
		cutoff := time.Now().Add(-time.Hour)
		for path, when := range w.processed {
			if when.Before(cutoff) {
				delete(w.processed, path)
			}
		}
		w.mu.Unlock()
	}
}
