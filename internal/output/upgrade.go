package output

import (
	"strconv"
	"strings"
)

// ModuleChange records one go.mod change made by an upgrade.
type ModuleChange struct {
	// Path is the module path, or "go" for the toolchain directive.
	Path string
	// From is the version before the rewrite.
	From string
	// To is the version after the rewrite.
	To string
}

// RenderUpgrade renders the changes an upgrade made to a plugin package.
func RenderUpgrade(changes []ModuleChange) string {
	if len(changes) == 0 {
		return "No changes detected."
	}

	styles := GetStyles()
	var sb strings.Builder

	sb.WriteString(styles.Warning.Render("Upgraded:"))
	sb.WriteString("\n")
	for _, c := range changes {
		sb.WriteString("  ~ ")
		sb.WriteString(styles.Noun.Render(c.Path))
		sb.WriteString("  ")
		sb.WriteString(styles.Muted.Render(c.From))
		sb.WriteString(" -> ")
		sb.WriteString(styles.Success.Render(c.To))
		sb.WriteString("\n")
	}

	sb.WriteString("\nSummary: ")
	sb.WriteString(strconv.Itoa(len(changes)))
	sb.WriteString(" changed\n")

	return sb.String()
}
