package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// LibraryInfo describes one resolved library for output formatting. This
// mirror type keeps the output package free of a dependency on the resolve
// package.
type LibraryInfo struct {
	Name      string `json:"name"`
	Toolchain string `json:"toolchain"`
	Path      string `json:"path"`
	Origin    string `json:"origin,omitempty"`
}

// ListOptions controls library list output.
type ListOptions struct {
	// Format selects text columns or JSON.
	Format Format
	// Writer is the output destination.
	Writer io.Writer
}

// WriteLibraries writes the library listing in the selected format. Text
// output is the aligned NAME TOOLCHAIN LOCATION table; JSON output carries
// the full artifact paths.
func WriteLibraries(libs []LibraryInfo, opts ListOptions) error {
	if opts.Format == FormatJSON {
		encoder := json.NewEncoder(opts.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(libs)
	}

	rows := make([]LibraryRow, 0, len(libs))
	for _, lib := range libs {
		rows = append(rows, LibraryRow{
			Name:      lib.Name,
			Toolchain: lib.Toolchain,
			Location:  DisplayLocation(lib.Path),
		})
	}

	_, err := io.WriteString(opts.Writer, RenderLibraryTable(rows))
	return err
}

// ResolutionReport is the structured verbose report of a resolution run.
type ResolutionReport struct {
	Requested []string      `json:"requested,omitempty"`
	Libraries []LibraryInfo `json:"libraries"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// ReportOptions controls verbose resolution report output.
type ReportOptions struct {
	// JSON outputs structured JSON instead of human-readable text.
	JSON bool
	// Writer is the output destination.
	Writer io.Writer
}

// WriteResolutionReport writes a verbose account of what resolved and where
// each library came from.
func WriteResolutionReport(report *ResolutionReport, opts ReportOptions) error {
	if opts.JSON {
		encoder := json.NewEncoder(opts.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	return writeReportHuman(report, opts.Writer)
}

func writeReportHuman(report *ResolutionReport, w io.Writer) error {
	var sb strings.Builder

	if len(report.Requested) > 0 {
		sb.WriteString("Requested:\n")
		sb.WriteString(fmt.Sprintf("  %s\n", strings.Join(report.Requested, ", ")))
		sb.WriteString("\n")
	}

	sb.WriteString("Resolved Libraries:\n")
	if len(report.Libraries) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, lib := range report.Libraries {
		line := FormatLibraryLine(lib.Name, lib.Toolchain, lib.Origin)
		sb.WriteString("  " + line + "\n")
		sb.WriteString("    " + GetStyles().Muted.Render(DisplayLocation(lib.Path)) + "\n")
	}
	sb.WriteString("\n")

	if len(report.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, warning := range report.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warning))
		}
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}
