// DBIMGTOOL ⸻ internal/sanitize/policy.go
// sanitization policy and the per-category tag tables

package sanitize

import "strings"

// Policy selects which metadata categories a strip removes. A policy
// is constructed per operation and never mutated once the operation
// starts. StripOnly additionally guarantees that no pixel-content
// transformation (background removal, watermark) runs alongside the
// strip.
type Policy struct {
	GPS    bool
	Device bool
	Date   bool

	StripOnly bool
}

// All enables every category
func All(stripOnly bool) Policy {
	return Policy{GPS: true, Device: true, Date: true, StripOnly: stripOnly}
}

// Fixed per-category deletion arguments. These lists are constant and
// documented here rather than inferred from tool defaults: a strip of
// the same input with the same policy always issues the same request.
var (
	// the whole EXIF GPS block
	gpsArgs = []string{"-GPS:all="}

	// camera and owner identifying tags
	deviceArgs = []string{
		"-Make=", "-Model=", "-SerialNumber=", "-BodySerialNumber=",
		"-CameraSerialNumber=", "-LensSerialNumber=", "-LensModel=",
		"-LensID=", "-Artist=", "-OwnerName=",
	}

	// capture and modification timestamps
	dateArgs = []string{
		"-DateTimeOriginal=", "-CreateDate=", "-ModifyDate=",
		"-SubSecTime*=", "-OffsetTime*=",
	}
)

// Enabled reports whether any category is selected
func (p Policy) Enabled() bool {
	return p.GPS || p.Device || p.Date
}

// Args returns the exact exiftool deletion arguments for the policy
func (p Policy) Args() []string {
	var args []string
	if p.GPS {
		args = append(args, gpsArgs...)
	}
	if p.Device {
		args = append(args, deviceArgs...)
	}
	if p.Date {
		args = append(args, dateArgs...)
	}
	return args
}

// Categories names the enabled categories
func (p Policy) Categories() []string {
	var cats []string
	if p.GPS {
		cats = append(cats, "gps")
	}
	if p.Device {
		cats = append(cats, "device")
	}
	if p.Date {
		cats = append(cats, "date")
	}
	return cats
}

func (p Policy) String() string {
	cats := p.Categories()
	if len(cats) == 0 {
		return "none"
	}
	s := strings.Join(cats, ",")
	if p.StripOnly {
		s += " (strip-only)"
	}
	return s
}

// tagNames lists the bare tag names an enabled category deletes,
// derived from the arg tables; wildcard suffixes become prefixes
// for matching
func (p Policy) tagNames() []string {
	var names []string
	for _, arg := range p.Args() {
		name := strings.TrimSuffix(strings.TrimPrefix(arg, "-"), "=")
		names = append(names, name)
	}
	return names
}
