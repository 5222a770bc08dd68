// DBIMGTOOL ⸻ internal/session/session.go
// single-owner session state with one revert level

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbeglaryan/dbimagetoolset/internal/util"
)

// session lifecycle states
type State int

const (
	Empty State = iota
	Loaded
	Modified
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

var ErrNoSession = errors.New("no image is open")

// a failed commit to disk
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Buffer owns the bytes of the one open image: the open-time
// original (kept for revert) and the current working copy.
type Buffer struct {
	path     string
	original []byte
	current  []byte
	ext      string
}

func (b *Buffer) Path() string { return b.path }
func (b *Buffer) Ext() string  { return b.ext }

// Bytes returns the current working bytes
func (b *Buffer) Bytes() []byte { return b.current }

// Original returns the exact bytes captured at open time
func (b *Buffer) Original() []byte { return b.original }

// Session tracks exactly one open image. It is single-owner state:
// safe from one goroutine at a time, no locking by design.
type Session struct {
	state State
	buf   *Buffer
}

func New() *Session {
	return &Session{state: Empty}
}

func (s *Session) State() State {
	return s.state
}

// Current returns the live buffer, nil when the session is empty
func (s *Session) Current() *Buffer {
	return s.buf
}

// Open loads a file and makes it the session's single live buffer.
// Any prior buffer, including unsaved modifications, is discarded.
func (s *Session) Open(path string) (*Buffer, error) {
	if err := util.ValidateReadable(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	original := make([]byte, len(data))
	copy(original, data)

	s.buf = &Buffer{
		path:     path,
		original: original,
		current:  data,
		ext:      filepath.Ext(path),
	}
	s.state = Loaded

	return s.buf, nil
}

// Apply replaces the working bytes with the outcome of a sanitize or
// convert operation. extHint may change when the operation re-encoded
// the container (pass "" to keep the current hint).
func (s *Session) Apply(data []byte, extHint string) error {
	if s.state == Empty || s.buf == nil {
		return ErrNoSession
	}

	s.buf.current = data
	if extHint != "" {
		s.buf.ext = extHint
	}
	s.state = Modified

	return nil
}

// Revert restores the exact bytes captured at open time, regardless
// of how many operations were applied since
func (s *Session) Revert() (*Buffer, error) {
	if s.state == Empty || s.buf == nil {
		return nil, ErrNoSession
	}

	restored := make([]byte, len(s.buf.original))
	copy(restored, s.buf.original)
	s.buf.current = restored
	s.buf.ext = filepath.Ext(s.buf.path)
	s.state = Loaded

	return s.buf, nil
}

// Commit writes the working bytes to path atomically and makes them
// the new baseline. A failed commit leaves any previously committed
// file on disk untouched.
func (s *Session) Commit(path string) error {
	if s.state == Empty || s.buf == nil {
		return ErrNoSession
	}

	if err := util.AtomicWrite(path, s.buf.current); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	baseline := make([]byte, len(s.buf.current))
	copy(baseline, s.buf.current)
	s.buf.original = baseline
	s.buf.path = path
	s.state = Loaded

	return nil
}
