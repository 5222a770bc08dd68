// DBIMGTOOL ⸻ internal/sanitize/verify.go
// post-strip verification against the policy

package sanitize

import (
	"fmt"
	"os"
	"strings"

	"github.com/dbeglaryan/dbimagetoolset/internal/metadata"
)

// outcome of checking stripped bytes against the policy that
// produced them
type VerifyResult struct {
	Clean     bool
	Remaining []string
}

// Verify re-reads the stripped bytes and confirms that every tag an
// enabled category targets is gone. Disabled categories are not
// checked; their tags are supposed to survive.
func Verify(reader *metadata.Reader, data []byte, extHint string, policy Policy) (*VerifyResult, error) {
	tmp, err := writeTemp(data, extHint)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	rec, err := reader.Read(tmp)
	if err != nil {
		return nil, fmt.Errorf("verification read failed: %w", err)
	}

	result := &VerifyResult{Remaining: remainingTags(rec, policy)}
	result.Clean = len(result.Remaining) == 0
	return result, nil
}

// remainingTags lists record keys an enabled category should have
// removed
func remainingTags(rec *metadata.Record, policy Policy) []string {
	var remaining []string

	if policy.GPS {
		if rec.GPS != nil {
			remaining = append(remaining, "GPSLatitude", "GPSLongitude")
		} else {
			for _, key := range rec.Keys() {
				lower := strings.ToLower(key)
				if strings.HasPrefix(lower, "gps") && lower != "gpsversionid" {
					remaining = append(remaining, key)
				}
			}
		}
	}

	for _, name := range policy.tagNames() {
		if strings.HasPrefix(name, "GPS") {
			continue // handled above
		}
		if wild, ok := strings.CutSuffix(name, "*"); ok {
			for _, key := range rec.Keys() {
				if strings.HasPrefix(strings.ToLower(key), strings.ToLower(wild)) {
					remaining = append(remaining, key)
				}
			}
			continue
		}
		if v := rec.GetString(name); strings.TrimSpace(v) != "" {
			remaining = append(remaining, name)
		}
	}

	return remaining
}
