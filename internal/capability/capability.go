// DBIMGTOOL ⸻ internal/capability/capability.go
// startup capability probing for optional collaborators

package capability

import (
	"sort"

	"github.com/dbeglaryan/dbimagetoolset/internal/convert"
	"github.com/dbeglaryan/dbimagetoolset/internal/exiftool"
	"github.com/dbeglaryan/dbimagetoolset/internal/plugins"
)

// capability names
const (
	ExifTool = "exiftool"
	HEIC     = "heic"
	AVIF     = "avif"
	BGRemove = "bgremove"
)

// Set is the outcome of the one startup probe. Components never
// re-probe at call time; they receive the collaborators this detects
// (or their absence) as injected dependencies.
type Set map[string]bool

// Detect probes once for every optional collaborator
func Detect(toolDir string) Set {
	caps := Set{}

	_, err := exiftool.Locate(toolDir)
	caps[ExifTool] = err == nil

	caps[HEIC] = convert.DecoderRegistered(convert.HEIC)
	caps[AVIF] = convert.DecoderRegistered(convert.AVIF)

	_, caps[BGRemove] = plugins.FindBackgroundRemover()

	return caps
}

func (s Set) Has(name string) bool {
	return s[name]
}

// Names lists probed capabilities, sorted
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
