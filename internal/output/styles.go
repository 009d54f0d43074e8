package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Named constants for all ANSI 256 colors used in the CLI;
// never use inline lipgloss.Color literals elsewhere.
var (
	// colorCyan is used for identifiable nouns: library names, toolchains, paths.
	colorCyan = lipgloss.Color("14")

	// colorGreen is used for the "built" library status (bright, high-visibility).
	colorGreen = lipgloss.Color("82")

	// colorYellow is used for the "fetched" library status and warnings.
	colorYellow = lipgloss.Color("220")

	// colorBoldRed is used for the "failed" library status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")
)

// Styles maps domain concepts to visual presentation.
type Styles struct {
	// Noun styles identifiable nouns (library names, toolchains, paths).
	Noun lipgloss.Style

	// Bold styles emphasized lines (tree roots, summaries).
	Bold lipgloss.Style

	// Muted styles structural chrome (prefixes, separators, descriptions).
	Muted lipgloss.Style

	// Success styles successful outcomes.
	Success lipgloss.Style

	// Warning styles cautionary output.
	Warning lipgloss.Style

	// Error styles failures.
	Error lipgloss.Style
}

var defaultStyles = Styles{
	Noun:    lipgloss.NewStyle().Foreground(colorCyan),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Faint(true),
	Success: lipgloss.NewStyle().Foreground(colorGreen),
	Warning: lipgloss.NewStyle().Foreground(colorYellow),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed),
}

// GetStyles returns the process-wide style set.
func GetStyles() *Styles {
	return &defaultStyles
}

// minLibraryColumnWidth is the minimum width of the library column before the
// note suffix. This keeps notes aligned across consecutive lines.
const minLibraryColumnWidth = 48

// FormatLibraryLine renders a library identifier with an aligned, dim
// annotation, such as the resolution origin.
//
// Format: lib:<name>@<toolchain>  <note>
//
// The "lib:" prefix, toolchain, and note are dim; the name is cyan.
func FormatLibraryLine(name, toolchain, note string) string {
	ident := name
	if toolchain != "" {
		ident += "@" + toolchain
	}

	padding := minLibraryColumnWidth - len("lib:"+ident)
	if padding < 2 {
		padding = 2
	}

	styles := GetStyles()
	line := styles.Muted.Render("lib:") + styles.Noun.Render(name)
	if toolchain != "" {
		line += styles.Muted.Render("@" + toolchain)
	}

	return line + strings.Repeat(" ", padding) + styles.Muted.Render(note)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// vetDetailColumn is where vet check details start, so consecutive checks
// align.
const vetDetailColumn = 28

// FormatVetCheck renders one "config vet" check line: a green checkmark, the
// check label, and an optional dim detail aligned at a fixed column.
func FormatVetCheck(label, detail string) string {
	line := FormatCheckmark(label)
	if detail == "" {
		return line
	}

	padding := vetDetailColumn - len(label)
	if padding < 2 {
		padding = 2
	}

	return line + strings.Repeat(" ", padding) + GetStyles().Muted.Render(detail)
}
