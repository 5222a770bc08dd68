// DBIMGTOOL ⸻ internal/metadata/summary.go
// condensed privacy summary of a record

package metadata

import (
	"fmt"
	"strings"
)

// the privacy-relevant extract of a Record
type Summary struct {
	GPS      *GPSCoordinate
	Make     string
	Model    string
	Owner    string
	Software string
	Captured string
	Serials  []string
}

// Summarize pulls the fields a privacy review cares about
func Summarize(rec *Record) Summary {
	s := Summary{GPS: rec.GPS}

	s.Make = firstOf(rec, "Make")
	s.Model = firstOf(rec, "Model")
	s.Owner = firstOf(rec, "Artist", "Creator", "OwnerName", "XPAuthor")
	s.Software = firstOf(rec, "Software", "CreatorTool")
	s.Captured = firstOf(rec, "DateTimeOriginal", "CreateDate")

	for _, key := range rec.Keys() {
		if !strings.Contains(strings.ToLower(key), "serial") {
			continue
		}
		if val := rec.GetString(key); val != "" {
			s.Serials = append(s.Serials, fmt.Sprintf("%s: %s", key, val))
		}
	}

	return s
}

// Empty reports whether nothing privacy-relevant was found
func (s Summary) Empty() bool {
	return s.GPS == nil && s.Make == "" && s.Model == "" && s.Owner == "" &&
		s.Software == "" && s.Captured == "" && len(s.Serials) == 0
}

func firstOf(rec *Record, keys ...string) string {
	for _, k := range keys {
		if v := rec.GetString(k); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// sensitiveTerms flags tag names that may identify a person, a
// device, a place or a moment in time
var sensitiveTerms = []string{
	"gps", "location", "author", "creator", "artist", "owner",
	"copyright", "email", "serial", "device", "username", "computer",
	"datetimeoriginal", "createdate", "modifydate",
}

// IsSensitive reports whether the tag name looks privacy-sensitive
func IsSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, term := range sensitiveTerms {
		if strings.Contains(key, term) {
			return true
		}
	}
	return false
}

// SensitiveKeys lists the record's privacy-sensitive tag names
func SensitiveKeys(rec *Record) []string {
	var keys []string
	for _, k := range rec.Keys() {
		if strings.HasPrefix(k, "_") {
			continue
		}
		if IsSensitive(k) {
			keys = append(keys, k)
		}
	}
	return keys
}
