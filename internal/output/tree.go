package output

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "
)

// RenderFileTree renders the scaffolded files as a tree rooted at
// moduleName, one annotation per file. Keys of files are slash or native
// relative paths; values are short descriptions, aligned in a column after
// the longest entry.
func RenderFileTree(moduleName string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	paths := make([]string, 0, len(files))
	descs := make(map[string]string, len(files))
	for p, d := range files {
		slashed := filepath.ToSlash(p)
		paths = append(paths, slashed)
		descs[slashed] = d
	}

	lines := []treeLine{{text: GetStyles().Bold.Render(moduleName + "/")}}
	lines = append(lines, layoutDir(paths, descs, "", "")...)

	column := 0
	for _, l := range lines {
		if l.desc != "" && len(l.text) > column {
			column = len(l.text)
		}
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.text)
		if l.desc != "" {
			sb.WriteString(strings.Repeat(" ", column-len(l.text)+2))
			sb.WriteString(GetStyles().Muted.Render(l.desc))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

type treeLine struct {
	text string
	desc string
}

// layoutDir renders one directory level. paths are relative to the level;
// entries sharing a first segment form a subdirectory, rendered dirs first.
func layoutDir(paths []string, descs map[string]string, dir, indent string) []treeLine {
	children := make(map[string][]string)
	var dirs, plain []string
	for _, p := range paths {
		head, rest, nested := strings.Cut(p, "/")
		if !nested {
			plain = append(plain, head)
			continue
		}
		if len(children[head]) == 0 {
			dirs = append(dirs, head)
		}
		children[head] = append(children[head], rest)
	}
	sort.Strings(dirs)
	sort.Strings(plain)

	var lines []treeLine
	total := len(dirs) + len(plain)
	for i, name := range append(dirs, plain...) {
		last := i == total-1
		connector, childIndent := treeEdge, indent+treeVert
		if last {
			connector, childIndent = treeLast, indent+treeSpace
		}

		if i < len(dirs) {
			lines = append(lines, treeLine{text: indent + connector + name + "/"})
			lines = append(lines, layoutDir(children[name], descs, joinSlash(dir, name), childIndent)...)
			continue
		}
		lines = append(lines, treeLine{
			text: indent + connector + name,
			desc: descs[joinSlash(dir, name)],
		})
	}
	return lines
}

func joinSlash(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
