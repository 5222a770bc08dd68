// DBIMGTOOL ⸻ internal/convert/convert.go
// re-encoding between the restricted save formats

package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"

	// decoders for the openable-but-not-saveable formats
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// the requested save format is not in the allowed set
	ErrUnsupportedTarget = errors.New("unsupported target format")

	// the input could not be decoded by any registered decoder
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Encoder settings, fixed so identical input and settings always give
// identical output:
//   - JPEG: quality 90
//   - PNG: standard encoder, default compression (lossless)
//   - WEBP: lossless
const jpegQuality = 90

// saveTargets is the allowed save set. Source formats such as TIFF,
// BMP and HEIC are openable but deliberately not re-encoding targets.
var saveTargets = map[Format]bool{
	PNG:  true,
	JPEG: true,
	WEBP: true,
}

// SaveTargets lists the formats Convert may produce
func SaveTargets() []Format {
	return []Format{PNG, JPEG, WEBP}
}

// Decode turns image bytes into pixels, using the optional plugin
// decoders for HEIC/HEIF and AVIF when registered
func Decode(data []byte) (image.Image, Format, error) {
	format, ok := Sniff(data)
	if !ok {
		return nil, "", fmt.Errorf("%w: unrecognized container", ErrUnsupportedFormat)
	}

	if format == HEIC || format == AVIF {
		dec, ok := pluginDecoder(format)
		if !ok {
			return nil, format, fmt.Errorf("%w: no %s decoder available", ErrUnsupportedFormat, format)
		}
		img, err := dec(bytes.NewReader(data))
		if err != nil {
			return nil, format, fmt.Errorf("%s decode failed: %w", format, err)
		}
		return img, format, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return img, format, nil
}

// Encode writes pixels in the target format. It performs no
// filesystem access; callers own persistence.
func Encode(img image.Image, target Format) ([]byte, error) {
	if !saveTargets[target] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, target)
	}

	var buf bytes.Buffer
	switch target {
	case PNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("png encode failed: %w", err)
		}
	case JPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, fmt.Errorf("jpeg encode failed: %w", err)
		}
	case WEBP:
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("webp encode failed: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// Convert decodes data and re-encodes it as target
func Convert(data []byte, target Format) ([]byte, error) {
	if !saveTargets[target] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, target)
	}

	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return Encode(img, target)
}
