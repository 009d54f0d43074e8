// Package cmd provides CLI command implementations.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dynalint/dynalint/internal/config"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/output"
)

var configInitForce bool

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the default dynalint configuration file.

The file is created at ~/.dynalint/config.yaml, or at the path given
with --config or DYNALINT_CONFIG. Every key is written with its default
value and a comment, so the file doubles as the configuration reference.

Examples:
  # Write the default configuration
  dynalint config init

  # Overwrite an existing configuration
  dynalint config init --force`,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite an existing configuration file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	resolved, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		return err
	}
	expanded, err := config.ExpandPath(resolved.Value)
	if err != nil {
		return err
	}

	if _, err := os.Stat(expanded); err == nil && !configInitForce {
		return oerrors.NewConfigurationError(
			"configuration already exists", expanded, "",
			"Pass --force to overwrite it.",
		)
	}

	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(expanded, []byte(config.DefaultConfigYAML), 0o644); err != nil {
		return err
	}

	output.Println("Configuration initialized at " + expanded)
	output.Println("")
	output.Println("Validate with: dynalint config vet")

	return nil
}
