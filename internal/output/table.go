package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table is a bordered key/value table for status surfaces such as
// `dynalint version`.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// String renders the table as a string.
func (t *Table) String() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle := lipgloss.NewStyle()

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}

	return tbl.String()
}

// LibraryRow is one line of the library listing.
type LibraryRow struct {
	Name      string
	Toolchain string
	Location  string
}

// RenderLibraryTable renders the library listing as plain columns padded to
// the widest entry, with a muted header row. Borderless on purpose so the
// listing stays grep-friendly.
func RenderLibraryTable(rows []LibraryRow) string {
	nameWidth := len("NAME")
	toolchainWidth := len("TOOLCHAIN")
	for _, r := range rows {
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
		if len(r.Toolchain) > toolchainWidth {
			toolchainWidth = len(r.Toolchain)
		}
	}

	var sb strings.Builder
	header := pad("NAME", nameWidth) + "  " + pad("TOOLCHAIN", toolchainWidth) + "  LOCATION"
	sb.WriteString(GetStyles().Muted.Render(header))
	sb.WriteString("\n")

	for _, r := range rows {
		sb.WriteString(pad(r.Name, nameWidth))
		sb.WriteString("  ")
		sb.WriteString(pad(r.Toolchain, toolchainWidth))
		sb.WriteString("  ")
		sb.WriteString(r.Location)
		sb.WriteString("\n")
	}

	return sb.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// DisplayLocation renders an artifact location for listings: the containing
// directory, relative to the working directory when underneath it, with a
// home-directory prefix compressed to "~". A package directory standing in
// for its future artifact is its own location. Artifacts that do not exist
// yet render as "<unbuilt>".
func DisplayLocation(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "<unbuilt>"
	}

	dir := filepath.Dir(abs)
	if info.IsDir() {
		dir = abs
	}
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, dir); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return rel
		}
	}

	return CompressHome(dir)
}

// CompressHome replaces a leading home directory with "~" for display.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}
