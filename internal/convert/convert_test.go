// DBIMGTOOL ⸻ internal/convert/convert_test.go

package convert

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
)

// pngFixture encodes a small gradient so the pixels are non-trivial
func pngFixture(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestConvertTargets(t *testing.T) {
	src := pngFixture(t)

	tests := []struct {
		target Format
	}{
		{PNG},
		{JPEG},
		{WEBP},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			out, err := Convert(src, tt.target)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			got, ok := Sniff(out)
			if !ok || got != tt.target {
				t.Errorf("output sniffs as %q, want %q", got, tt.target)
			}
		})
	}
}

func TestConvertUnsupportedTarget(t *testing.T) {
	src := pngFixture(t)

	// openable formats that are deliberately not save targets
	for _, target := range []Format{TIFF, BMP, HEIC, AVIF, Format("gif")} {
		_, err := Convert(src, target)
		if !errors.Is(err, ErrUnsupportedTarget) {
			t.Errorf("Convert(%q) = %v, want ErrUnsupportedTarget", target, err)
		}
	}
}

func TestConvertRejectsTargetBeforeDecoding(t *testing.T) {
	// an invalid target must fail even when the input is garbage:
	// target validation comes first and no decode is attempted
	_, err := Convert([]byte("not an image at all"), TIFF)
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("got %v, want ErrUnsupportedTarget", err)
	}
}

func TestConvertUndecodableInput(t *testing.T) {
	_, err := Convert([]byte("definitely not an image"), PNG)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestConvertDeterministic(t *testing.T) {
	src := pngFixture(t)

	for _, target := range SaveTargets() {
		a, err := Convert(src, target)
		if err != nil {
			t.Fatalf("Convert(%s): %v", target, err)
		}
		b, err := Convert(src, target)
		if err != nil {
			t.Fatalf("Convert(%s): %v", target, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s output differs between identical runs", target)
		}
	}
}

func TestConvertRoundtripKeepsDimensions(t *testing.T) {
	src := pngFixture(t)

	out, err := Convert(src, JPEG)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	img, _, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("dimensions changed: %v", b)
	}
}

func TestDecodeReportsFormat(t *testing.T) {
	_, format, err := Decode(pngFixture(t))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != PNG {
		t.Errorf("format = %q, want png", format)
	}
}

func TestDecodeAVIFWithoutDecoder(t *testing.T) {
	data := make([]byte, 32)
	data[3] = 0x18
	copy(data[4:], "ftypavif")

	_, format, err := Decode(data)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
	if format != AVIF {
		t.Errorf("format = %q, want avif", format)
	}
	if DecoderRegistered(AVIF) {
		t.Error("no avif decoder should be registered in tests")
	}
}

func TestDecodeWithRegisteredPlugin(t *testing.T) {
	called := false
	RegisterDecoder(HEIC, func(r io.Reader) (image.Image, error) {
		called = true
		io.Copy(io.Discard, r)
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	})

	if !DecoderRegistered(HEIC) {
		t.Fatal("decoder registration not visible")
	}

	data := make([]byte, 32)
	data[3] = 0x18
	copy(data[4:], "ftypheic")

	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !called {
		t.Error("plugin decoder was not invoked")
	}
	if format != HEIC {
		t.Errorf("format = %q, want heic", format)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("unexpected image from plugin: %v", img.Bounds())
	}
}
