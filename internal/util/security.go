// DBIMGTOOL ⸻ internal/util/security.go
// secure disposal of superseded originals

package util

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
)

// SecureOverwriteFile overwrites a file before deleting it, to make
// recovery of the original (metadata included) harder. Three passes:
// zeros, ones, random.
func SecureOverwriteFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file for secure overwrite: %w", err)
	}
	size := info.Size()

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open file for secure overwrite: %w", err)
	}
	defer f.Close()

	if err := overwritePattern(f, size, 0x00); err != nil {
		return err
	}
	if err := overwritePattern(f, size, 0xFF); err != nil {
		return err
	}
	if err := overwriteRandom(f, size); err != nil {
		return err
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync during secure overwrite: %w", err)
	}
	f.Close()

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove file after secure overwrite: %w", err)
	}

	return nil
}

const overwriteChunk int64 = 1024 * 1024

func overwritePattern(f *os.File, size int64, pattern byte) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to beginning: %w", err)
	}

	buf := make([]byte, min(size, overwriteChunk))
	for i := range buf {
		buf[i] = pattern
	}

	remaining := size
	for remaining > 0 {
		n := min(remaining, int64(len(buf)))
		if _, err := f.Write(buf[:n]); err != nil {
			return fmt.Errorf("failed to write pattern: %w", err)
		}
		remaining -= n
	}

	return nil
}

func overwriteRandom(f *os.File, size int64) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to beginning: %w", err)
	}

	buf := make([]byte, min(size, overwriteChunk))

	remaining := size
	for remaining > 0 {
		n := min(remaining, int64(len(buf)))
		if _, err := io.ReadFull(rand.Reader, buf[:n]); err != nil {
			return fmt.Errorf("failed to generate random data: %w", err)
		}
		if _, err := f.Write(buf[:n]); err != nil {
			return fmt.Errorf("failed to write random data: %w", err)
		}
		remaining -= n
	}

	return nil
}
