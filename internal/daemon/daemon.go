// DBIMGTOOL ⸻ internal/daemon/daemon.go
// background watcher that auto-sanitizes new images

package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dbeglaryan/dbimagetoolset/internal/config"
	"github.com/dbeglaryan/dbimagetoolset/internal/exiftool"
	"github.com/dbeglaryan/dbimagetoolset/internal/metadata"
	"github.com/dbeglaryan/dbimagetoolset/internal/sanitize"
	"github.com/dbeglaryan/dbimagetoolset/internal/util"
)

// Daemon watches configured directories and writes sanitized sibling
// copies of images that carry sensitive metadata. The originals are
// never modified.
type Daemon struct {
	cfg       *config.Config
	logger    *Logger
	watcher   *Watcher
	reader    *metadata.Reader
	sanitizer *sanitize.Sanitizer
	running   bool
}

// current daemon state
type Status struct {
	Running     bool
	WatchedDirs []string
	Extensions  []string
}

// New builds a daemon from config. The external tool is required:
// without it the daemon could observe sensitive files but never
// sanitize them.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			loaded = config.Default()
		}
		cfg = loaded
	}

	runner, err := exiftool.Discover(cfg.Tool.Dir)
	if err != nil {
		return nil, fmt.Errorf("daemon needs exiftool: %w", err)
	}

	logPath := filepath.Join(os.Getenv("HOME"), ".dbimgtool", "logs", "daemon.log")
	logger, err := NewLogger(logPath, LevelInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		reader:    metadata.NewReader(runner),
		sanitizer: sanitize.NewSanitizer(runner),
	}, nil
}

func (d *Daemon) Start() error {
	if d.running {
		return fmt.Errorf("daemon already running")
	}

	d.logger.Info("starting daemon")

	options := WatchOptions{
		Extensions:  d.cfg.Watch.Extensions,
		ExcludeDirs: []string{".git", "node_modules", ".venv"},
		SettleAge:   time.Duration(d.cfg.Watch.SettleSeconds) * time.Second,
		Recursive:   true,
	}

	watcher, err := NewWatcher(d.cfg.Watch.Paths, options, d.handleFile, d.logger)
	if err != nil {
		d.logger.Error("failed to create watcher: %v", err)
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		d.logger.Error("failed to start watcher: %v", err)
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	d.watcher = watcher
	d.running = true
	d.logger.Info("daemon started")

	return nil
}

func (d *Daemon) Stop() error {
	if !d.running {
		return nil
	}

	d.logger.Info("stopping daemon")

	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Warn("error stopping watcher: %v", err)
		}
	}

	if err := d.logger.Close(); err != nil {
		return fmt.Errorf("error closing logger: %w", err)
	}

	d.running = false
	return nil
}

func (d *Daemon) Status() *Status {
	if !d.running {
		return &Status{}
	}
	return &Status{
		Running:     true,
		WatchedDirs: d.cfg.Watch.Paths,
		Extensions:  d.cfg.Watch.Extensions,
	}
}

func (d *Daemon) IsRunning() bool {
	return d.running
}

// handleFile sanitizes one detected file into a sibling copy when it
// carries sensitive metadata
func (d *Daemon) handleFile(path string) error {
	// don't reprocess our own output
	if strings.Contains(filepath.Base(path), d.cfg.Output.Suffix) {
		return nil
	}

	rec, err := d.reader.Read(path)
	if err != nil {
		d.logger.Warn("read failed for %s: %v", path, err)
		return err
	}

	sensitive := metadata.SensitiveKeys(rec)
	if len(sensitive) == 0 {
		d.logger.Debug("no sensitive metadata in %s, skipping", path)
		return nil
	}

	d.logger.Info("found %d sensitive fields in %s, sanitizing", len(sensitive), path)

	out, err := d.sanitizer.StripFile(path, sanitize.All(true))
	if err != nil {
		d.logger.Error("strip failed for %s: %v", path, err)
		return err
	}

	outPath := util.GenerateOutputPath(path, d.cfg.Output.Suffix)
	if err := util.AtomicWrite(outPath, out); err != nil {
		d.logger.Error("write failed for %s: %v", outPath, err)
		return err
	}

	d.logger.Info("sanitized %s → %s", path, outPath)
	return nil
}
