package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	oerrors "github.com/dynalint/dynalint/internal/errors"
)

const (
	// DedicatedFile is the manifest owned entirely by dynalint.
	DedicatedFile = "dynalint.yaml"
	// WorkspaceFile is the shared workspace manifest; only its dynalint
	// section is read, other top-level keys belong to other tools.
	WorkspaceFile = "workspace.yaml"
)

type dedicatedManifest struct {
	Plugins []Entry `yaml:"plugins"`
}

type workspaceManifest struct {
	Dynalint *workspaceSection `yaml:"dynalint"`
}

type workspaceSection struct {
	Plugins []Entry
}

func (w *workspaceSection) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: dynalint section must be a mapping", value.Line)
	}
	for i := 0; i < len(value.Content)-1; i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		switch key.Value {
		case "plugins":
			if err := val.Decode(&w.Plugins); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: unknown key %q in dynalint section", key.Line, key.Value)
		}
	}
	return nil
}

// Load reads the plugin entries declared in root's manifests. Entries from
// both files are merged per source key; when both declare the same key, the
// dedicated file's entries replace the shared file's. Returns nil entries
// when neither file exists.
func Load(root string) ([]Entry, error) {
	shared, err := loadWorkspace(filepath.Join(root, WorkspaceFile))
	if err != nil {
		return nil, err
	}
	dedicated, err := loadDedicated(filepath.Join(root, DedicatedFile))
	if err != nil {
		return nil, err
	}
	return merge(shared, dedicated), nil
}

func loadDedicated(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m dedicatedManifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, parseError(path, err)
	}
	if err := validateAll(path, m.Plugins); err != nil {
		return nil, err
	}
	return m.Plugins, nil
}

func loadWorkspace(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m workspaceManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, parseError(path, err)
	}
	if m.Dynalint == nil {
		return nil, nil
	}
	if err := validateAll(path, m.Dynalint.Plugins); err != nil {
		return nil, err
	}
	return m.Dynalint.Plugins, nil
}

func parseError(path string, err error) error {
	return oerrors.NewConfigurationError(
		fmt.Sprintf("parsing manifest: %v", err),
		path, "",
		"check the YAML syntax and the allowed plugin entry keys",
	)
}

func validateAll(path string, entries []Entry) error {
	for _, e := range entries {
		if err := e.Validate(path); err != nil {
			return err
		}
	}
	return nil
}

// merge folds the two manifests together. Within a file, repeated keys are
// legitimate (same source, different patterns) and all survive; across
// files, the dedicated entries for a key replace every shared entry for it.
// Declaration order is preserved for stable downstream output.
func merge(shared, dedicated []Entry) []Entry {
	byKey := make(map[string][]Entry)
	for _, e := range dedicated {
		byKey[e.Key()] = append(byKey[e.Key()], e)
	}

	merged := make([]Entry, 0, len(shared)+len(dedicated))
	replaced := make(map[string]bool)
	for _, e := range shared {
		key := e.Key()
		if overrides, ok := byKey[key]; ok {
			if !replaced[key] {
				merged = append(merged, overrides...)
				replaced[key] = true
			}
			continue
		}
		merged = append(merged, e)
	}
	for _, e := range dedicated {
		key := e.Key()
		if replaced[key] {
			continue
		}
		merged = append(merged, byKey[key]...)
		replaced[key] = true
	}
	return merged
}
