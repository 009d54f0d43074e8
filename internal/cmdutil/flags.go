// Package cmdutil provides shared command utilities for dynalint
// subcommands. It centralizes the selection and run flag groups the check
// and list commands share, the resolve preamble both execute, and the
// printing of batched resolution failures.
package cmdutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dynalint/dynalint/internal/metadata"
	"github.com/dynalint/dynalint/internal/resolve"
)

// SelectionFlags holds the flags choosing which libraries a command
// operates on (check, list).
type SelectionFlags struct {
	All        bool
	Libs       []string
	LibPaths   []string
	Git        string
	Branch     string
	Tag        string
	Rev        string
	Paths      []string
	Patterns   []string
	NoBuild    bool
	NoMetadata bool
	FailFast   bool
}

// AddTo registers the selection flags on the given cobra command.
func (f *SelectionFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.All, "all", false,
		"Select every discoverable library")
	cmd.Flags().StringArrayVar(&f.Libs, "lib", nil,
		"Library name to select (can be repeated)")
	cmd.Flags().StringArrayVar(&f.LibPaths, "lib-path", nil,
		"Extra artifact search directory (can be repeated)")
	cmd.Flags().StringVar(&f.Git, "git", "",
		"Git repository to fetch libraries from")
	cmd.Flags().StringVar(&f.Branch, "branch", "",
		"Branch of the --git repository")
	cmd.Flags().StringVar(&f.Tag, "tag", "",
		"Tag of the --git repository")
	cmd.Flags().StringVar(&f.Rev, "rev", "",
		"Revision of the --git repository")
	cmd.Flags().StringArrayVar(&f.Paths, "path", nil,
		"Local package directory or glob to build libraries from (can be repeated)")
	cmd.Flags().StringArrayVar(&f.Patterns, "pattern", nil,
		"Glob narrowing --git or --path to matching packages (can be repeated)")
	cmd.Flags().BoolVar(&f.NoBuild, "no-build", false,
		"Resolve package directories without compiling them")
	cmd.Flags().BoolVar(&f.NoMetadata, "no-metadata", false,
		"Ignore workspace metadata")
	cmd.Flags().BoolVar(&f.FailFast, "fail-fast", false,
		"Abort on the first fetch or build failure instead of collecting the batch")
}

// Validate checks the cross-flag rules cobra cannot express.
func (f *SelectionFlags) Validate() error {
	if f.All && len(f.Libs) > 0 {
		return fmt.Errorf("--lib cannot be used with --all")
	}
	refs := 0
	for _, v := range []string{f.Branch, f.Tag, f.Rev} {
		if v != "" {
			refs++
		}
	}
	if refs > 1 {
		return fmt.Errorf("--branch, --tag, and --rev are mutually exclusive")
	}
	if refs > 0 && f.Git == "" {
		return fmt.Errorf("--branch, --tag, and --rev can only be used with --git")
	}
	if len(f.Patterns) > 0 && f.Git == "" && len(f.Paths) == 0 {
		return fmt.Errorf("--pattern can only be used with --git or --path")
	}
	return nil
}

// HasSelection reports whether the flags plus the command's positional
// names select anything at all.
func (f *SelectionFlags) HasSelection(names []string) bool {
	return f.All || len(names) > 0 || len(f.Libs) > 0 || f.Git != "" || len(f.Paths) > 0
}

// AdHocEntries converts --git and --path into tier 1 metadata entries.
// Every entry shares the --pattern narrowing.
func (f *SelectionFlags) AdHocEntries() []metadata.Entry {
	var entries []metadata.Entry
	if f.Git != "" {
		entries = append(entries, metadata.Entry{
			Git:     f.Git,
			Branch:  f.Branch,
			Tag:     f.Tag,
			Rev:     f.Rev,
			Pattern: metadata.StringOrList(f.Patterns),
		})
	}
	for _, p := range f.Paths {
		entries = append(entries, metadata.Entry{
			Path:    p,
			Pattern: metadata.StringOrList(f.Patterns),
		})
	}
	return entries
}

// Request assembles the resolve request for the selection plus the
// command's positional names. A positional containing a path separator can
// only be meant as a literal artifact path, so it enables the path
// fallback tier.
func (f *SelectionFlags) Request(names []string) resolve.Request {
	merged := append([]string(nil), f.Libs...)
	merged = append(merged, names...)
	return resolve.Request{
		Names:        merged,
		All:          f.All,
		AdHoc:        f.AdHocEntries(),
		NoBuild:      f.NoBuild,
		NoMetadata:   f.NoMetadata,
		PathsAllowed: pathsAllowed(names),
		FailFast:     f.FailFast,
	}
}

// pathsAllowed reports whether any positional looks like a path rather
// than a logical name. Logical names never contain separators.
func pathsAllowed(names []string) bool {
	for _, name := range names {
		if strings.ContainsAny(name, `/\`) {
			return true
		}
	}
	return false
}

// RunFlags holds the flags controlling how the driver runs the selected
// libraries (check only).
type RunFlags struct {
	Dir       string
	Fix       bool
	KeepGoing bool
	Timeout   time.Duration
}

// AddTo registers the run flags on the given cobra command.
func (f *RunFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Dir, "dir", ".",
		"Target module directory to check")
	cmd.Flags().BoolVar(&f.Fix, "fix", false,
		"Apply suggested fixes, then verify with a clean run")
	cmd.Flags().BoolVar(&f.KeepGoing, "keep-going", false,
		"Run every toolchain group even after one fails")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0,
		"Per-driver-run time limit (0 means none)")
}
