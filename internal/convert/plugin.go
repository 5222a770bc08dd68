// DBIMGTOOL ⸻ internal/convert/plugin.go
// optional decoder registry for HEIC/HEIF and AVIF

package convert

import (
	"image"
	"io"
)

// a pluggable decoder for a format the core cannot read itself
type PluginDecoder func(r io.Reader) (image.Image, error)

var pluginDecoders = map[Format]PluginDecoder{}

// RegisterDecoder installs an optional decoder. Called once at
// startup by whoever wires the binary together; components never
// probe for decoders at call time.
func RegisterDecoder(format Format, dec PluginDecoder) {
	if dec == nil {
		return
	}
	pluginDecoders[format] = dec
}

// DecoderRegistered reports whether a plugin decoder exists for the
// format
func DecoderRegistered(format Format) bool {
	_, ok := pluginDecoders[format]
	return ok
}

func pluginDecoder(format Format) (PluginDecoder, bool) {
	dec, ok := pluginDecoders[format]
	return dec, ok
}
