// DBIMGTOOL ⸻ internal/metadata/record.go
// normalized metadata record with GPS decomposition

package metadata

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	// tool output could not be parsed
	ErrParse = errors.New("malformed metadata output")

	// neither the tool nor the fallback could read the file
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// GPS position as signed decimal degrees
type GPSCoordinate struct {
	Lat float64
	Lon float64
}

// Record is the normalized view over one file's metadata. Tag names
// are case-normalized and deduplicated: the first writer of a key
// wins, later casings of the same key are dropped.
type Record struct {
	fields map[string]any    // canonical key → value
	canon  map[string]string // lowercase key → canonical key

	// decomposed GPS position, nil when absent
	GPS *GPSCoordinate

	// set when the external tool was absent during the read and
	// the record was filled (possibly partially) by the fallback
	ToolMissing bool
}

func NewRecord() *Record {
	return &Record{
		fields: make(map[string]any),
		canon:  make(map[string]string),
	}
}

// Set stores a tag value. Group prefixes ("EXIF:Make") are reduced to
// the bare tag name so the same tag from different groups deduplicates.
func (r *Record) Set(key string, value any) {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		key = key[i+1:]
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	lower := strings.ToLower(key)
	if _, seen := r.canon[lower]; seen {
		return
	}

	r.canon[lower] = key
	r.fields[key] = value
}

// Get looks a tag up case-insensitively
func (r *Record) Get(key string) (any, bool) {
	canonical, ok := r.canon[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	v, ok := r.fields[canonical]
	return v, ok
}

// GetString returns the tag rendered as a string, "" when absent
func (r *Record) GetString(key string) string {
	v, ok := r.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return strings.TrimSpace(strings.Trim(renderValue(v), `"`))
}

// GetFloat returns the tag as a float64 where the value converts
func (r *Record) GetFloat(key string) (float64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func (r *Record) Len() int {
	return len(r.fields)
}

// Keys returns canonical tag names, sorted
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether any stored tag name contains the fragment,
// case-insensitively
func (r *Record) Has(fragment string) bool {
	fragment = strings.ToLower(fragment)
	for lower := range r.canon {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// deriveGPS decomposes GPSLatitude/GPSLongitude into signed decimal
// degrees, applying the N/S/E/W reference tags when the raw values
// come out unsigned
func (r *Record) deriveGPS() {
	lat, okLat := r.GetFloat("GPSLatitude")
	lon, okLon := r.GetFloat("GPSLongitude")
	if !okLat || !okLon {
		return
	}

	if ref := strings.ToUpper(r.GetString("GPSLatitudeRef")); strings.HasPrefix(ref, "S") && lat > 0 {
		lat = -lat
	}
	if ref := strings.ToUpper(r.GetString("GPSLongitudeRef")); strings.HasPrefix(ref, "W") && lon > 0 {
		lon = -lon
	}

	r.GPS = &GPSCoordinate{Lat: lat, Lon: lon}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
