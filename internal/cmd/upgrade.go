// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"

	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/version"
)

// toolsModule is the analysis dependency kept in lockstep with the
// toolchain pin.
const toolsModule = "golang.org/x/tools"

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	var (
		goVersionFlag      string
		allowDowngradeFlag bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade [dir]",
		Short: "Upgrade a plugin package's toolchain pin",
		Long: `Upgrade a plugin package's pinned Go release.

The go directive in the package's go.mod moves to the requested release,
the host toolchain's by default, and the golang.org/x/tools requirement
moves to the release the driver links against. A toolchain directive, if
present, follows the go directive.

Moving to an older release is refused unless --allow-downgrade is set.

Examples:
  # Pin the package in the current directory to the host toolchain
  dynalint upgrade

  # Pin a specific package to a specific release
  dynalint upgrade ./lints/deadcode --go-version 1.25.0

  # Roll a pin back
  dynalint upgrade --go-version 1.24.0 --allow-downgrade`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runUpgrade(dir, goVersionFlag, allowDowngradeFlag)
		},
	}

	cmd.Flags().StringVar(&goVersionFlag, "go-version", "", "Go release to pin (defaults to the host toolchain)")
	cmd.Flags().BoolVar(&allowDowngradeFlag, "allow-downgrade", false, "Allow pinning an older release than the current one")

	return cmd
}

func runUpgrade(dir, goVersion string, allowDowngrade bool) error {
	gomodPath := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(gomodPath)
	if err != nil {
		return &oerrors.ExitError{
			Code: oerrors.ExitConfiguration,
			Err:  fmt.Errorf("%s is not a plugin package: %w", dir, err),
		}
	}

	f, err := modfile.Parse(gomodPath, data, nil)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfiguration, Err: err}
	}

	target := strings.TrimPrefix(goVersion, "go")
	if target == "" {
		target = version.HostGoVersion()
	}
	if !semver.IsValid("v" + target) {
		return &oerrors.ExitError{
			Code: oerrors.ExitConfiguration,
			Err:  fmt.Errorf("invalid go version %q", goVersion),
		}
	}

	var changes []output.ModuleChange

	current := ""
	if f.Go != nil {
		current = f.Go.Version
	}
	if current != target {
		if current != "" && semver.Compare("v"+target, "v"+current) < 0 && !allowDowngrade {
			return &oerrors.ExitError{
				Code: oerrors.ExitConfiguration,
				Err:  fmt.Errorf("go %s is older than the current pin %s; pass --allow-downgrade to pin it anyway", target, current),
			}
		}
		if err := f.AddGoStmt(target); err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitGeneral, Err: err}
		}
		if current == "" {
			current = "(none)"
		}
		changes = append(changes, output.ModuleChange{Path: "go", From: current, To: target})
	}

	if f.Toolchain != nil && f.Toolchain.Name != "go"+target {
		from := f.Toolchain.Name
		if err := f.AddToolchainStmt("go" + target); err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitGeneral, Err: err}
		}
		changes = append(changes, output.ModuleChange{Path: "toolchain", From: from, To: "go" + target})
	}

	currentTools := ""
	for _, r := range f.Require {
		if r.Mod.Path == toolsModule {
			currentTools = r.Mod.Version
			break
		}
	}
	if currentTools != "" && currentTools != version.ToolsVersion {
		if semver.Compare(version.ToolsVersion, currentTools) < 0 && !allowDowngrade {
			return &oerrors.ExitError{
				Code: oerrors.ExitConfiguration,
				Err: fmt.Errorf("%s %s is newer than the driver's %s; pass --allow-downgrade to move it back",
					toolsModule, currentTools, version.ToolsVersion),
			}
		}
		if err := f.AddRequire(toolsModule, version.ToolsVersion); err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitGeneral, Err: err}
		}
		changes = append(changes, output.ModuleChange{Path: toolsModule, From: currentTools, To: version.ToolsVersion})
	}

	if len(changes) > 0 {
		f.Cleanup()
		out, err := f.Format()
		if err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitGeneral, Err: err}
		}
		if err := os.WriteFile(gomodPath, out, 0o644); err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitGeneral, Err: err}
		}
	}

	output.Println(output.RenderUpgrade(changes))
	return nil
}
