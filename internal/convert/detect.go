// DBIMGTOOL ⸻ internal/convert/detect.go
// image container sniffing by magic numbers

package convert

import (
	"bytes"
	"strings"
)

// an image container format
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WEBP Format = "webp"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
	HEIC Format = "heic"
	AVIF Format = "avif"
)

// ISOBMFF brands that mean HEIC/HEIF content
var heifBrands = [][]byte{
	[]byte("ftypheic"), []byte("ftypheix"),
	[]byte("ftypheim"), []byte("ftypheis"),
	[]byte("ftypmif1"), []byte("ftypmsf1"),
	[]byte("ftyphevc"), []byte("ftyphevx"),
}

// Sniff identifies the container from the leading bytes
func Sniff(data []byte) (Format, bool) {
	if len(data) < 12 {
		return "", false
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG, true
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return PNG, true
	case bytes.HasPrefix(data, []byte{0x49, 0x49, 0x2A, 0x00}),
		bytes.HasPrefix(data, []byte{0x4D, 0x4D, 0x00, 0x2A}):
		return TIFF, true
	case bytes.HasPrefix(data, []byte("BM")):
		return BMP, true
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return WEBP, true
	}

	// ISOBMFF: [4-byte size]["ftyp"][brand]
	if bytes.Equal(data[4:8], []byte("ftyp")) {
		if bytes.HasPrefix(data[4:], []byte("ftypavif")) {
			return AVIF, true
		}
		for _, brand := range heifBrands {
			if bytes.HasPrefix(data[4:], brand) {
				return HEIC, true
			}
		}
	}

	return "", false
}

// FromExtension maps a file extension to a Format
func FromExtension(ext string) (Format, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png":
		return PNG, true
	case "jpg", "jpeg":
		return JPEG, true
	case "webp":
		return WEBP, true
	case "tif", "tiff":
		return TIFF, true
	case "bmp":
		return BMP, true
	case "heic", "heif":
		return HEIC, true
	case "avif":
		return AVIF, true
	}
	return "", false
}

// Extension returns the canonical file extension for a format
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tiff"
	default:
		return "." + string(f)
	}
}
