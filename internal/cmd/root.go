// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dynalint/dynalint/internal/config"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/version"
)

var (
	// Global flags
	verboseFlag bool
	quietFlag   bool
	configFlag  string
	outputFlag  string

	// Resolved configuration (loaded during PersistentPreRunE)
	globalConfig *config.Config
)

// NewRootCmd creates the root command for the dynalint CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dynalint",
		Short: "Run dynamically loaded Go analyzers",
		Long: `dynalint discovers, builds, and runs Go analyzer plugins.

Plugins are ordinary Go packages exporting analyzers; dynalint compiles
them into shared libraries per toolchain, caches the artifacts, and runs
them against a target module through a matching driver binary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals()
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only report errors")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: DYNALINT_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewNewCmd())
	rootCmd.AddCommand(NewUpgradeCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals() error {
	output.SetupLogging(output.LogConfig{
		Verbose: verboseFlag,
		Quiet:   quietFlag,
	})

	output.Debug("initializing CLI",
		"version", version.Version,
		"config", configFlag)

	cfg, err := config.NewLoader().LoadWithDefaults(configFlag)
	if err != nil {
		return &oerrors.ExitError{
			Code: oerrors.ExitConfiguration,
			Err:  fmt.Errorf("loading configuration: %w", err),
		}
	}
	globalConfig = cfg

	if _, err := outputFormat(); err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfiguration, Err: err}
	}
	return nil
}

// outputFormat resolves the output format with precedence:
// --output flag > config file > text.
func outputFormat() (output.Format, error) {
	value := outputFlag
	if value == "" && globalConfig != nil {
		value = globalConfig.Output
	}
	if value == "" {
		return output.FormatText, nil
	}

	f, ok := output.ParseFormat(value)
	if !ok {
		return "", fmt.Errorf("unknown output format %q (valid formats: %s)",
			value, strings.Join(output.ValidFormats(), ", "))
	}
	return f, nil
}
