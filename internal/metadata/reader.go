// DBIMGTOOL ⸻ internal/metadata/reader.go
// metadata extraction via exiftool, with graceful degradation

package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	barexif "github.com/barasher/go-exiftool"

	"github.com/dbeglaryan/dbimagetoolset/internal/exiftool"
)

// Reader extracts a Record from a file on disk. A nil runner means
// the external tool is absent; reads then fall back to the pure-Go
// EXIF decoder and record the ToolNotFound condition instead of
// failing, so an image stays openable without its metadata panel.
type Reader struct {
	runner *exiftool.Runner
}

func NewReader(runner *exiftool.Runner) *Reader {
	return &Reader{runner: runner}
}

// ToolAvailable reports whether reads go through the external tool
func (rd *Reader) ToolAvailable() bool {
	return rd != nil && rd.runner != nil
}

// Read extracts all metadata from the file at path.
// Read never modifies the file.
func (rd *Reader) Read(path string) (*Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a file", path)
	}

	if !rd.ToolAvailable() {
		rec, err := readFallback(path)
		if err != nil {
			return nil, err
		}
		rec.ToolMissing = true
		return rec, nil
	}

	et, err := barexif.NewExiftool(
		barexif.SetExiftoolBinaryPath(rd.runner.Path()),
		barexif.NoPrintConversion(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool session: %w", err)
	}
	defer et.Close()

	infos := et.ExtractMetadata(path)
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: exiftool produced no result for %s", ErrParse, path)
	}

	fi := infos[0]
	if fi.Err != nil {
		msg := strings.ToLower(fi.Err.Error())
		if strings.Contains(msg, "unknown file type") || strings.Contains(msg, "file format error") {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, fi.Err)
	}

	rec := NewRecord()
	for k, v := range fi.Fields {
		rec.Set(k, v)
	}
	rec.deriveGPS()

	return rec, nil
}

// parseToolJSON converts a raw `exiftool -j` dump into a Record.
// ExifTool emits an array of objects, one per input file; only the
// first is consumed.
func parseToolJSON(output string) (*Record, error) {
	output = strings.TrimSpace(output)

	var results []map[string]any
	if err := json.Unmarshal([]byte(output), &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	rec := NewRecord()
	if len(results) == 0 {
		return rec, nil
	}

	for k, v := range results[0] {
		rec.Set(k, v)
	}
	rec.deriveGPS()

	return rec, nil
}
