// DBIMGTOOL ⸻ internal/mark/watermark.go
// deterministic label watermark

package mark

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dbeglaryan/dbimagetoolset/internal/convert"
)

// DefaultLabel marks files that went through the safe pipeline
const DefaultLabel = "SAFE"

// fixed settings so watermarking identical input gives identical
// output across runs
const (
	labelOpacity = 160
	edgeMargin   = 20
)

// Apply draws the label into the bottom-right corner and returns the
// composited image. The input image is not modified.
func Apply(img image.Image, label string) image.Image {
	if label == "" {
		label = DefaultLabel
	}

	base := imaging.Clone(img)
	bounds := base.Bounds()

	overlay := image.NewNRGBA(bounds)
	d := &font.Drawer{
		Dst:  overlay,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: labelOpacity}),
		Face: basicfont.Face7x13,
	}

	textWidth := d.MeasureString(label).Ceil()
	x := bounds.Dx() - textWidth - edgeMargin
	if x < 8 {
		x = 8
	}
	y := bounds.Dy() - edgeMargin
	if y < 8 {
		y = 8
	}
	d.Dot = fixed.P(bounds.Min.X+x, bounds.Min.Y+y)
	d.DrawString(label)

	return imaging.Overlay(base, overlay, image.Pt(bounds.Min.X, bounds.Min.Y), 1.0)
}

// ApplyToBytes decodes, watermarks and re-encodes as PNG (the
// watermark compositor always produces PNG output)
func ApplyToBytes(data []byte, label string) ([]byte, error) {
	img, _, err := convert.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("watermark decode failed: %w", err)
	}

	marked := Apply(img, label)

	out, err := convert.Encode(marked, convert.PNG)
	if err != nil {
		return nil, fmt.Errorf("watermark encode failed: %w", err)
	}

	return out, nil
}
