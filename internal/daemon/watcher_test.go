// DBIMGTOOL ⸻ internal/daemon/watcher_test.go

package daemon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLogger(t *testing.T) *Logger {
	t.Helper()
	logger, err := NewLogger(filepath.Join(t.TempDir(), "test.log"), LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func testWatcher(t *testing.T, dir string, options WatchOptions) *Watcher {
	t.Helper()
	w, err := NewWatcher([]string{dir}, options, func(string) error { return nil }, testLogger(t))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	t.Cleanup(func() { w.watcher.Close() })
	return w
}

func TestNewWatcherRejectsInvalidDirs(t *testing.T) {
	logger := testLogger(t)

	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "missing")}, WatchOptions{},
		func(string) error { return nil }, logger)
	if err == nil {
		t.Error("expected an error when no directory is watchable")
	}
}

func TestNewWatcherSkipsBadKeepsGood(t *testing.T) {
	good := t.TempDir()
	bad := filepath.Join(t.TempDir(), "missing")

	w, err := NewWatcher([]string{bad, good}, WatchOptions{},
		func(string) error { return nil }, testLogger(t))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.watcher.Close()

	if len(w.dirs) != 1 || w.dirs[0] != good {
		t.Errorf("dirs = %v", w.dirs)
	}
}

func TestMatchesExtension(t *testing.T) {
	w := testWatcher(t, t.TempDir(), WatchOptions{Extensions: []string{".jpg", ".PNG"}})

	tests := []struct {
		path string
		want bool
	}{
		{"a/photo.jpg", true},
		{"a/photo.JPG", true},
		{"a/photo.png", true},
		{"a/document.pdf", false},
		{"a/noext", false},
	}
	for _, tt := range tests {
		if got := w.matchesExtension(tt.path); got != tt.want {
			t.Errorf("matchesExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMatchesExtensionEmptyFilter(t *testing.T) {
	w := testWatcher(t, t.TempDir(), WatchOptions{})
	if !w.matchesExtension("anything.xyz") {
		t.Error("empty filter should match everything")
	}
}

func TestExcluded(t *testing.T) {
	w := testWatcher(t, t.TempDir(), WatchOptions{ExcludeDirs: []string{".git", "node_modules"}})

	if !w.excluded("/home/u/project/.git/objects") {
		t.Error(".git path not excluded")
	}
	if w.excluded("/home/u/photos") {
		t.Error("normal path excluded")
	}
}

func TestShouldProcessSettleAge(t *testing.T) {
	dir := t.TempDir()
	w := testWatcher(t, dir, WatchOptions{Extensions: []string{".jpg"}, SettleAge: time.Hour})

	path := filepath.Join(dir, "fresh.jpg")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// just written, still inside the settle window
	if w.shouldProcess(path) {
		t.Error("file processed before it settled")
	}

	// age the file past the window
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
	if !w.shouldProcess(path) {
		t.Error("settled file not processed")
	}
}

func TestShouldProcessReprocessGuard(t *testing.T) {
	dir := t.TempDir()
	w := testWatcher(t, dir, WatchOptions{Extensions: []string{".jpg"}})

	path := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !w.shouldProcess(path) {
		t.Fatal("first sighting should process")
	}
	w.markProcessed(path)

	if w.shouldProcess(path) {
		t.Error("immediate re-sighting should be suppressed")
	}

	// a stale entry no longer suppresses
	w.mu.Lock()
	w.processed[path] = time.Now().Add(-2 * time.Minute)
	w.mu.Unlock()

	if !w.shouldProcess(path) {
		t.Error("expired guard entry still suppresses")
	}
}

func TestShouldProcessMissingFile(t *testing.T) {
	dir := t.TempDir()
	w := testWatcher(t, dir, WatchOptions{Extensions: []string{".jpg"}, SettleAge: time.Second})

	if w.shouldProcess(filepath.Join(dir, "gone.jpg")) {
		t.Error("missing file should not be processed")
	}
}

func TestLoggerLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	logger, err := NewLogger(path, LevelWarn)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Debug("hidden %d", 1)
	logger.Info("hidden too")
	logger.Warn("visible warning")
	logger.Error("visible error")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if len(content) == 0 {
		t.Fatal("nothing logged")
	}
	for _, hidden := range []string{"hidden"} {
		if strings.Contains(content, hidden) {
			t.Errorf("below-level message logged: %q", hidden)
		}
	}
	for _, visible := range []string{"WARN: visible warning", "ERROR: visible error"} {
		if !strings.Contains(content, visible) {
			t.Errorf("missing log line %q in:\n%s", visible, content)
		}
	}
}

func TestLoggerRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daemon.log")
	logger, err := NewLogger(path, LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Info("before rotation")
	if err := logger.Rotate(); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	logger.Info("after rotation")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected current + archived log, got %d files", len(entries))
	}

	current, _ := os.ReadFile(path)
	if strings.Contains(string(current), "before rotation") {
		t.Error("rotation did not start a fresh file")
	}
	if !strings.Contains(string(current), "after rotation") {
		t.Error("post-rotation logging lost")
	}
}
