// DBIMGTOOL ⸻ internal/metadata/report.go
// render a record for the terminal

package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dbeglaryan/dbimagetoolset/internal/util"
)

// RenderReport formats a record the way the inspect command shows it:
// a summary block, then every tag with sensitive ones flagged.
func RenderReport(path string, rec *Record) string {
	var sb strings.Builder

	sb.WriteString(util.Info.Render(fmt.Sprintf("File: %s", filepath.Base(path))))
	sb.WriteString("\n")

	summ := Summarize(rec)
	if summ.GPS != nil {
		sb.WriteString(util.Warn.Render(fmt.Sprintf(" ! GPS: %.6f, %.6f", summ.GPS.Lat, summ.GPS.Lon)))
		sb.WriteString("\n")
	}
	writeSummaryLine(&sb, "Captured", summ.Captured)
	writeSummaryLine(&sb, "Make", summ.Make)
	writeSummaryLine(&sb, "Model", summ.Model)
	writeSummaryLine(&sb, "Owner", summ.Owner)
	writeSummaryLine(&sb, "Software", summ.Software)
	if len(summ.Serials) > 0 {
		writeSummaryLine(&sb, "Serials", strings.Join(summ.Serials, ", "))
	}
	sb.WriteString("\n")

	if rec.Len() == 0 {
		if rec.ToolMissing {
			sb.WriteString(util.Warn.Render("[!] No metadata shown: exiftool is not installed"))
			sb.WriteString("\n")
			sb.WriteString(util.Sub.Render("    Install exiftool or place it under tools/ to enable inspection."))
			sb.WriteString("\n")
		} else {
			sb.WriteString(util.Ok.Render("✓ No metadata detected"))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	if rec.ToolMissing {
		sb.WriteString(util.Warn.Render("[!] exiftool not found: showing the embedded EXIF block only"))
		sb.WriteString("\n\n")
	}

	sb.WriteString(util.Head.Render("Metadata:"))
	sb.WriteString("\n")

	sensitiveCount := 0
	for _, key := range rec.Keys() {
		if strings.HasPrefix(key, "_") || strings.HasPrefix(key, "File") || key == "SourceFile" {
			continue
		}

		v, _ := rec.Get(key)
		valueStr := renderValue(v)
		if valueStr == "" {
			continue
		}

		if IsSensitive(key) {
			sensitiveCount++
			sb.WriteString(fmt.Sprintf(" %s %s: %s\n",
				util.Orn.Render("!"),
				util.Info.Render(key),
				util.Info.Render(valueStr)))
		} else {
			sb.WriteString(fmt.Sprintf(" %s %s: %s\n",
				util.Orn.Render("•"),
				util.Info.Render(key),
				valueStr))
		}
	}

	sb.WriteString("\n")
	if sensitiveCount > 0 {
		sb.WriteString(util.Warn.Render(fmt.Sprintf(
			"[!] Found %d potentially sensitive metadata fields.", sensitiveCount)))
		sb.WriteString("\n")
		sb.WriteString(util.Warn.Render("[!] Consider 'dbimgtool strip' to remove them."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(util.Ok.Render("✓ No sensitive metadata detected"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeSummaryLine(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	sb.WriteString(util.Sub.Render(fmt.Sprintf(" %s: %s", label, value)))
	sb.WriteString("\n")
}

// renderValue converts a metadata value to its display string
func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := renderValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		parts := make([]string, 0, len(v))
		for k, val := range v {
			if s := renderValue(val); s != "" {
				parts = append(parts, fmt.Sprintf("%s:%s", k, s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
