// DBIMGTOOL ⸻ internal/sanitize/sanitize.go
// selective metadata removal through exiftool

package sanitize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dbeglaryan/dbimagetoolset/internal/exiftool"
)

// Sanitizer removes metadata categories from image bytes. Unlike the
// read path there is no pure-library fallback here: selective tag
// deletion needs the external tool, so an absent tool is fatal to the
// operation and surfaces as exiftool.ErrToolNotFound.
type Sanitizer struct {
	runner *exiftool.Runner
}

func NewSanitizer(runner *exiftool.Runner) *Sanitizer {
	return &Sanitizer{runner: runner}
}

// Strip removes the policy's tag groups from data and returns the
// resulting bytes. Pixel data and tags outside the enabled groups are
// untouched, which also makes the operation idempotent: stripping an
// already-stripped file succeeds and yields equivalent output.
//
// extHint carries the original file extension (".jpg", ".png", ...)
// so the tool can identify the container. The input file on disk, if
// any, is never modified; all work happens in temp files.
func (s *Sanitizer) Strip(data []byte, extHint string, policy Policy) ([]byte, error) {
	if s == nil || s.runner == nil {
		return nil, exiftool.ErrToolNotFound
	}

	if !policy.Enabled() {
		// nothing to remove is still a success
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}

	tmpIn, err := writeTemp(data, extHint)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpIn)

	tmpOut := tmpIn + ".out" + normalizeExt(extHint)
	defer os.Remove(tmpOut)

	args := []string{"-m", "-o", tmpOut}
	args = append(args, policy.Args()...)
	args = append(args, tmpIn)

	if _, err := s.runner.Run(args...); err != nil {
		return nil, fmt.Errorf("strip %s failed: %w", policy, err)
	}

	out, err := os.ReadFile(tmpOut)
	if err != nil {
		// with nothing to change exiftool may skip the output file;
		// the input copy is then already the result
		out, err = os.ReadFile(tmpIn)
		if err != nil {
			return nil, fmt.Errorf("strip produced no output: %w", err)
		}
	}

	return out, nil
}

// StripFile reads path and strips it according to policy. The file
// itself is left untouched; callers decide what to do with the bytes.
func (s *Sanitizer) StripFile(path string, policy Policy) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return s.Strip(data, filepath.Ext(path), policy)
}

// ToolAvailable reports whether strips can run at all
func (s *Sanitizer) ToolAvailable() bool {
	return s != nil && s.runner != nil
}

func writeTemp(data []byte, extHint string) (string, error) {
	f, err := os.CreateTemp("", "dbimgtool-*"+normalizeExt(extHint))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return f.Name(), nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
