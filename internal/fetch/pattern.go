package fetch

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/metadata"
)

// compilePatterns compiles globs with '/' as the separator, so `*` stays
// within one path element and `**` crosses them.
func compilePatterns(location string, patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.TrimPrefix(p, "./"), '/')
		if err != nil {
			return nil, oerrors.NewConfigurationError(
				fmt.Sprintf("invalid glob %q: %v", p, err),
				location, "pattern",
				"fix the glob syntax",
			)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// expandPackages returns the directories under root selected by the
// entry's sub-package patterns, sorted. Without patterns the source root
// itself is the only candidate package.
func expandPackages(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return []string{root}, nil
	}
	globs, err := compilePatterns(root, patterns)
	if err != nil {
		return nil, err
	}
	return matchDirs(root, globs)
}

// expandLocal expands a local path glob under the workspace root. Matching
// happens by walking the workspace tree, so every match is inside it by
// construction; patterns that lexically escape the root are rejected
// before any filesystem access.
func (f *Fetcher) expandLocal(entry metadata.Entry) ([]string, error) {
	if !patternStaysLocal(entry.Path) {
		return nil, &oerrors.FetchError{
			Source: entry.Path,
			Err:    errors.New("path pattern escapes the workspace root"),
		}
	}
	if path.Clean(filepath.ToSlash(entry.Path)) == "." {
		return []string{f.WorkspaceRoot}, nil
	}
	globs, err := compilePatterns(entry.Key(), []string{entry.Path})
	if err != nil {
		return nil, err
	}
	return matchDirs(f.WorkspaceRoot, globs)
}

func patternStaysLocal(pattern string) bool {
	if pattern == "" || filepath.IsAbs(pattern) || filepath.VolumeName(pattern) != "" {
		return false
	}
	clean := path.Clean(filepath.ToSlash(pattern))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

// matchDirs walks root and keeps the directories whose slash-separated
// relative path matches any glob. Symlinks are not followed and .git trees
// are skipped.
func matchDirs(root string, globs []glob.Glob) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		relSlash := filepath.ToSlash(rel)
		for _, g := range globs {
			if g.Match(relSlash) {
				matches = append(matches, p)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expanding pattern under %s: %w", root, err)
	}
	sort.Strings(matches)
	return matches, nil
}
