// DBIMGTOOL ⸻ internal/metadata/reader_test.go

package metadata

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plain.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadWithoutToolDegrades(t *testing.T) {
	rd := NewReader(nil)

	if rd.ToolAvailable() {
		t.Fatal("ToolAvailable should be false with a nil runner")
	}

	// a PNG with no EXIF block still opens; the record is just empty
	// and flagged as a degraded read
	rec, err := rd.Read(pngFixture(t))
	if err != nil {
		t.Fatalf("degraded read must not fail: %v", err)
	}
	if !rec.ToolMissing {
		t.Error("ToolMissing not set on fallback read")
	}
	if rec.Len() != 0 {
		t.Errorf("expected an empty record, got %d tags", rec.Len())
	}
}

func TestReadMissingFile(t *testing.T) {
	rd := NewReader(nil)

	if _, err := rd.Read(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestReadDirectory(t *testing.T) {
	rd := NewReader(nil)

	if _, err := rd.Read(t.TempDir()); err == nil {
		t.Error("expected an error for a directory")
	}
}
