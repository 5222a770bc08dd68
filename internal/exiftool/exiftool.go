// DBIMGTOOL ⸻ internal/exiftool/exiftool.go
// exiftool binary discovery and subprocess execution

package exiftool

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// reported when exiftool is absent from PATH and the vendored
// tool directory
var ErrToolNotFound = errors.New("exiftool not found")

// a failed exiftool invocation, with whatever diagnostics the
// tool produced
type ExecError struct {
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("exiftool exit %d: %s", e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("exiftool exit %d", e.ExitCode)
}

// executes a located exiftool binary
type Runner struct {
	path string
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "exiftool.exe"
	}
	return "exiftool"
}

// Locate resolves the exiftool binary.
//
// Search order:
//  1. PATH
//  2. vendored tool directory, flat layout: <dir>/exiftool
//  3. vendored tool directory, nested layout: <dir>/exiftool_files/exiftool
//
// toolDir overrides the default "tools" vendored directory when non-empty.
func Locate(toolDir string) (string, error) {
	name := binaryName()

	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}

	if toolDir == "" {
		toolDir = "tools"
	}

	candidates := []string{
		filepath.Join(toolDir, name),
		filepath.Join(toolDir, "exiftool_files", name),
	}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(c); err == nil {
			return abs, nil
		}
		return c, nil
	}

	return "", ErrToolNotFound
}

func NewRunner(path string) *Runner {
	return &Runner{path: path}
}

// Discover combines Locate and NewRunner
func Discover(toolDir string) (*Runner, error) {
	path, err := Locate(toolDir)
	if err != nil {
		return nil, err
	}
	return NewRunner(path), nil
}

// absolute path of the located binary
func (r *Runner) Path() string {
	return r.path
}

// Run invokes exiftool and returns its stdout. Exit code 1 means
// minor warnings and counts as success; 2 and above is an ExecError.
func (r *Runner) Run(args ...string) (string, error) {
	cmd := exec.Command(r.path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code == 1 {
				return stdout.String(), nil
			}
			return stdout.String(), &ExecError{
				ExitCode: code,
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return "", fmt.Errorf("failed to run exiftool: %w", err)
	}

	return stdout.String(), nil
}
