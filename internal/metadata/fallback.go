// DBIMGTOOL ⸻ internal/metadata/fallback.go
// pure-Go EXIF fallback for when the external tool is absent

package metadata

import (
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// readFallback fills a Record from the embedded EXIF block alone.
// It covers far less than the tool (no XMP, no IPTC, no maker notes)
// and an image without a parseable EXIF block simply yields an empty
// record; that is the degraded-open contract, not an error.
func readFallback(path string) (*Record, error) {
	rec := NewRecord()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return rec, nil
	}

	x.Walk(recordWalker{rec: rec})

	if lat, lon, err := x.LatLong(); err == nil {
		rec.GPS = &GPSCoordinate{Lat: lat, Lon: lon}
	} else {
		rec.deriveGPS()
	}

	return rec, nil
}

type recordWalker struct {
	rec *Record
}

func (w recordWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	val := tag.String()
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	if strings.TrimSpace(val) == "" {
		return nil
	}
	w.rec.Set(string(name), val)
	return nil
}
