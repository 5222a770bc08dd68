// DBIMGTOOL ⸻ internal/safe/safe.go
// the SAFE pipeline: background removal → strip → watermark

package safe

import (
	"fmt"
	"strings"

	"github.com/dbeglaryan/dbimagetoolset/internal/exiftool"
	"github.com/dbeglaryan/dbimagetoolset/internal/mark"
	"github.com/dbeglaryan/dbimagetoolset/internal/plugins"
	"github.com/dbeglaryan/dbimagetoolset/internal/sanitize"
	"github.com/dbeglaryan/dbimagetoolset/internal/util"
)

type Options struct {
	// strip metadata only: no background removal, no watermark,
	// pixel data guaranteed byte-identical
	StripOnly bool

	// injected background remover, nil when the plugin is absent
	Remover plugins.BackgroundRemover

	// watermark label; DefaultLabel when empty
	Label string
}

// outcome of one pipeline run
type Result struct {
	Output []byte
	Ext    string

	BackgroundRemoved bool
	Stripped          []string
	Watermarked       bool

	// non-fatal stage notes (skipped stages and why)
	Notes []string
}

// Run executes the pipeline over in-memory bytes.
//
// Strip-only runs exactly one stage and requires the external tool:
// without it there is nothing the pipeline is allowed to do, so the
// tool's absence is the operation's error. The full pipeline degrades
// instead: a missing remover or tool becomes a note, the remaining
// stages still run.
func Run(san *sanitize.Sanitizer, data []byte, extHint string, opts Options) (*Result, error) {
	policy := sanitize.All(opts.StripOnly)

	if opts.StripOnly {
		out, err := san.Strip(data, extHint, policy)
		if err != nil {
			return nil, fmt.Errorf("safe (strip-only): %w", err)
		}
		return &Result{
			Output:   out,
			Ext:      extHint,
			Stripped: policy.Categories(),
		}, nil
	}

	result := &Result{Ext: extHint}
	current := data

	if opts.Remover != nil {
		removed, err := opts.Remover.Remove(current)
		if err != nil {
			result.Notes = append(result.Notes, fmt.Sprintf("background removal skipped: %v", err))
		} else {
			current = removed
			result.Ext = ".png" // the plugin emits PNG
			result.BackgroundRemoved = true
		}
	}

	if san.ToolAvailable() {
		stripped, err := san.Strip(current, result.Ext, policy)
		if err != nil {
			return nil, fmt.Errorf("safe: %w", err)
		}
		current = stripped
		result.Stripped = policy.Categories()
	} else {
		result.Notes = append(result.Notes,
			fmt.Sprintf("metadata strip skipped: %v", exiftool.ErrToolNotFound))
	}

	marked, err := mark.ApplyToBytes(current, opts.Label)
	if err != nil {
		return nil, fmt.Errorf("safe: %w", err)
	}
	result.Output = marked
	result.Ext = ".png"
	result.Watermarked = true

	return result, nil
}

// FormatResult renders the pipeline outcome for the terminal
func FormatResult(r *Result) string {
	var sb strings.Builder

	sb.WriteString(util.Ok.Render("✓ SAFE copy created"))
	sb.WriteString("\n")

	if r.BackgroundRemoved {
		sb.WriteString(util.Info.Render(" • background removed"))
		sb.WriteString("\n")
	}
	if len(r.Stripped) > 0 {
		sb.WriteString(util.Info.Render(fmt.Sprintf(" • stripped: %s", strings.Join(r.Stripped, ", "))))
		sb.WriteString("\n")
	}
	if r.Watermarked {
		sb.WriteString(util.Info.Render(" • watermarked"))
		sb.WriteString("\n")
	}

	for _, note := range r.Notes {
		sb.WriteString(util.Warn.Render(fmt.Sprintf(" ! %s", note)))
		sb.WriteString("\n")
	}

	return sb.String()
}
