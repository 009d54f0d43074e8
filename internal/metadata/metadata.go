// Package metadata loads plugin declarations from workspace manifests.
//
// Entries live in two places: a dedicated dynalint.yaml with a top-level
// plugins key, and the shared workspace.yaml under dynalint.plugins. Both
// are parsed strictly; a misspelled key is a configuration error, not a
// silently ignored entry.
package metadata

import (
	"fmt"

	"gopkg.in/yaml.v3"

	oerrors "github.com/dynalint/dynalint/internal/errors"
)

// StringOrList accepts either a YAML scalar or a sequence of scalars.
type StringOrList []string

func (s *StringOrList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*s = StringOrList{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = StringOrList(list)
		return nil
	default:
		return fmt.Errorf("line %d: pattern must be a string or a list of strings", value.Line)
	}
}

// Entry declares one plugin source: a git repository pinned to at most one
// of branch, tag, or rev, or a local path relative to the workspace root.
// Pattern narrows the source to the package directories matching its globs.
type Entry struct {
	Git     string
	Branch  string
	Tag     string
	Rev     string
	Path    string
	Pattern StringOrList
}

func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: plugin entry must be a mapping", value.Line)
	}
	for i := 0; i < len(value.Content)-1; i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var err error
		switch key.Value {
		case "git":
			err = val.Decode(&e.Git)
		case "branch":
			err = val.Decode(&e.Branch)
		case "tag":
			err = val.Decode(&e.Tag)
		case "rev":
			err = val.Decode(&e.Rev)
		case "path":
			err = val.Decode(&e.Path)
		case "pattern":
			err = val.Decode(&e.Pattern)
		default:
			return fmt.Errorf("line %d: unknown key %q in plugin entry", key.Line, key.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// IsGit reports whether the entry names a remote source.
func (e Entry) IsGit() bool {
	return e.Git != ""
}

// Key returns the entry's source identity, used to merge the two manifest
// files per key.
func (e Entry) Key() string {
	if e.IsGit() {
		return "git:" + e.Git
	}
	return "path:" + e.Path
}

// Ref returns the requested git revision and its kind. kind is one of
// "branch", "tag", "rev", or "" for the remote default.
func (e Entry) Ref() (ref, kind string) {
	switch {
	case e.Branch != "":
		return e.Branch, "branch"
	case e.Tag != "":
		return e.Tag, "tag"
	case e.Rev != "":
		return e.Rev, "rev"
	}
	return "", ""
}

// Validate enforces the schema rules a single entry must satisfy. location
// names the manifest file for error reporting.
func (e Entry) Validate(location string) error {
	if e.Git != "" && e.Path != "" {
		return oerrors.NewConfigurationError(
			"plugin entry sets both git and path",
			location, "plugins",
			"declare the source as either a git repository or a local path, not both",
		)
	}
	if e.Git == "" && e.Path == "" {
		return oerrors.NewConfigurationError(
			"plugin entry sets neither git nor path",
			location, "plugins",
			"declare the source as a git repository (git:) or a local path (path:)",
		)
	}
	refs := 0
	for _, v := range []string{e.Branch, e.Tag, e.Rev} {
		if v != "" {
			refs++
		}
	}
	if refs > 0 && e.Git == "" {
		return oerrors.NewConfigurationError(
			fmt.Sprintf("plugin entry for path %q sets a git revision", e.Path),
			location, "plugins",
			"branch, tag, and rev apply only to git sources",
		)
	}
	if refs > 1 {
		return oerrors.NewConfigurationError(
			fmt.Sprintf("plugin entry for %q sets more than one of branch, tag, and rev", e.Git),
			location, "plugins",
			"pin a git source to at most one revision",
		)
	}
	for _, p := range e.Pattern {
		if p == "" {
			return oerrors.NewConfigurationError(
				fmt.Sprintf("plugin entry for %q has an empty pattern value", e.Key()),
				location, "pattern",
				"remove the empty pattern or fill in a glob",
			)
		}
	}
	return nil
}
