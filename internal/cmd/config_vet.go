// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dynalint/dynalint/internal/config"
	"github.com/dynalint/dynalint/internal/metadata"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/toolchain"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration and workspace metadata",
		Long: `Validate the dynalint configuration file and the workspace metadata.

Checks performed:
  1. The config file parses, with unknown keys and invalid values rejected
  2. The workspace manifests parse and every plugin entry is well formed

A missing config file vets clean, since every key has a default. The
config path is resolved with the usual precedence:
  --config flag > DYNALINT_CONFIG env > ~/.dynalint/config.yaml

Examples:
  # Validate the default configuration and the current workspace
  dynalint config vet

  # Validate a specific config file
  dynalint config vet --config /path/to/config.yaml`,
		RunE: runConfigVet,
	}

	return cmd
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	resolved, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		return err
	}
	expanded, err := config.ExpandPath(resolved.Value)
	if err != nil {
		return err
	}

	output.Debug("validating config", "path", expanded)

	if err := config.Vet(resolved.Value); err != nil {
		return err
	}
	config.LogResolvedValues(configProvenance(resolved, expanded))

	detail := expanded
	if exists, err := config.ConfigFileExists(resolved.Value); err == nil && !exists {
		detail = "not present (defaults apply)"
	}
	output.Println(output.FormatVetCheck("config", detail))

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	root, ok := toolchain.FindModuleRoot(cwd)
	if !ok {
		root = cwd
	}

	output.Debug("validating workspace metadata", "root", root)

	entries, err := metadata.Load(root)
	if err != nil {
		return err
	}
	output.Println(output.FormatVetCheck("workspace metadata", countEntries(len(entries))))

	return nil
}

// configProvenance pairs the config path resolution with the cache-dir
// resolution so verbose runs show where each effective value comes from.
// The cache dir needs the raw file value, not the merged one, so the file
// is re-read leniently; a missing or malformed file just leaves it empty.
func configProvenance(configPath config.ResolvedValue, expanded string) []config.ResolvedValue {
	values := []config.ResolvedValue{configPath}

	var fileCfg config.Config
	if data, err := os.ReadFile(expanded); err == nil {
		_ = yaml.Unmarshal(data, &fileCfg)
	}
	if cache, err := config.ResolveCacheDir(config.ResolveCacheDirOptions{ConfigValue: fileCfg.CacheDir}); err == nil {
		values = append(values, cache)
	}
	return values
}

func countEntries(n int) string {
	switch n {
	case 0:
		return "no plugin entries"
	case 1:
		return "1 plugin entry"
	default:
		return fmt.Sprintf("%d plugin entries", n)
	}
}
