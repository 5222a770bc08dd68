// DBIMGTOOL ⸻ internal/sanitize/verify_test.go

package sanitize

import (
	"slices"
	"testing"

	"github.com/dbeglaryan/dbimagetoolset/internal/metadata"
)

func record(fields map[string]any) *metadata.Record {
	rec := metadata.NewRecord()
	for k, v := range fields {
		rec.Set(k, v)
	}
	return rec
}

func TestRemainingTagsClean(t *testing.T) {
	rec := record(map[string]any{
		"ImageWidth":  800,
		"ImageHeight": 600,
		"ColorSpace":  "sRGB",
	})

	if got := remainingTags(rec, All(true)); len(got) != 0 {
		t.Errorf("clean record reported remnants: %v", got)
	}
}

func TestRemainingTagsGPS(t *testing.T) {
	rec := record(map[string]any{"GPSAltitude": 120.5})

	got := remainingTags(rec, Policy{GPS: true})
	if !slices.Contains(got, "GPSAltitude") {
		t.Errorf("surviving GPS tag not reported: %v", got)
	}

	// GPSVersionID is structural, not positional
	rec = record(map[string]any{"GPSVersionID": "2.3.0.0"})
	if got := remainingTags(rec, Policy{GPS: true}); len(got) != 0 {
		t.Errorf("GPSVersionID should not count as a remnant: %v", got)
	}
}

func TestRemainingTagsWildcard(t *testing.T) {
	rec := record(map[string]any{"SubSecTimeOriginal": "123"})

	got := remainingTags(rec, Policy{Date: true})
	if !slices.Contains(got, "SubSecTimeOriginal") {
		t.Errorf("wildcard match missed: %v", got)
	}
}

func TestRemainingTagsScopedToPolicy(t *testing.T) {
	// a date-only strip must not complain about device tags
	rec := record(map[string]any{"Make": "Canon", "Model": "EOS R5"})

	if got := remainingTags(rec, Policy{Date: true}); len(got) != 0 {
		t.Errorf("disabled category tags reported: %v", got)
	}

	got := remainingTags(rec, Policy{Device: true})
	if !slices.Contains(got, "Make") || !slices.Contains(got, "Model") {
		t.Errorf("device remnants missed: %v", got)
	}
}
