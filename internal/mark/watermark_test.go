// DBIMGTOOL ⸻ internal/mark/watermark_test.go

package mark

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/dbeglaryan/dbimagetoolset/internal/convert"
)

func fixture(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 120, A: 255})
		}
	}
	return img
}

func TestApplyPreservesBounds(t *testing.T) {
	src := fixture(200, 100)

	marked := Apply(src, "SAFE")
	if got := marked.Bounds(); got.Dx() != 200 || got.Dy() != 100 {
		t.Errorf("bounds changed: %v", got)
	}
}

func TestApplyChangesPixels(t *testing.T) {
	src := fixture(200, 100)
	marked := Apply(src, "SAFE")

	var srcBuf, markedBuf bytes.Buffer
	if err := png.Encode(&srcBuf, src); err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(&markedBuf, marked); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(srcBuf.Bytes(), markedBuf.Bytes()) {
		t.Error("watermark left the image untouched")
	}
}

func TestApplyTinyImage(t *testing.T) {
	// the label anchor clamps instead of going negative
	marked := Apply(fixture(10, 10), "SAFE")
	if got := marked.Bounds(); got.Dx() != 10 || got.Dy() != 10 {
		t.Errorf("bounds changed: %v", got)
	}
}

func TestApplyDefaultLabel(t *testing.T) {
	a := Apply(fixture(100, 60), "")
	b := Apply(fixture(100, 60), DefaultLabel)

	var bufA, bufB bytes.Buffer
	png.Encode(&bufA, a)
	png.Encode(&bufB, b)
	if !bytes.Equal(bufA.Bytes(), bufB.Bytes()) {
		t.Error("empty label should fall back to the default")
	}
}

func TestApplyToBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, fixture(64, 64)); err != nil {
		t.Fatal(err)
	}

	out, err := ApplyToBytes(buf.Bytes(), "SAFE")
	if err != nil {
		t.Fatalf("ApplyToBytes: %v", err)
	}

	format, ok := convert.Sniff(out)
	if !ok || format != convert.PNG {
		t.Errorf("output sniffs as %q, want png", format)
	}

	img, _, err := convert.Decode(out)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("bounds = %v", b)
	}
}

func TestApplyToBytesDeterministic(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, fixture(64, 64)); err != nil {
		t.Fatal(err)
	}

	a, err := ApplyToBytes(buf.Bytes(), "SAFE")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ApplyToBytes(buf.Bytes(), "SAFE")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical input produced different output")
	}
}

func TestApplyToBytesUndecodable(t *testing.T) {
	if _, err := ApplyToBytes([]byte("not an image"), "SAFE"); err == nil {
		t.Error("expected an error for undecodable input")
	}
}
