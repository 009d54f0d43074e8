// Package cmd provides CLI command implementations.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dynalint/dynalint/internal/cmdutil"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/invoke"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/resolve"
	"github.com/dynalint/dynalint/internal/toolchain"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var selection cmdutil.SelectionFlags

	cmd := &cobra.Command{
		Use:   "list [libraries]",
		Short: "List known libraries or the analyzers they provide",
		Long: `List libraries or analyzers.

Without a selection, list shows every library discoverable through the
artifact search path and the workspace metadata, without building
anything. With a selection the chosen libraries are built and loaded,
and each one reports the analyzers it provides with their one-line
documentation.

Examples:
  # Show every discoverable library
  dynalint list

  # Show the analyzers of every workspace library
  dynalint list --all

  # Show the analyzers of one library from a git repository
  dynalint list --git https://github.com/acme/lints --pattern 'plugins/*'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), &selection, args)
		},
	}

	selection.AddTo(cmd)

	return cmd
}

func runList(ctx context.Context, selection *cmdutil.SelectionFlags, names []string) error {
	format, err := outputFormat()
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfiguration, Err: err}
	}

	if !selection.HasSelection(names) {
		return listLibraries(ctx, selection, format)
	}
	return listAnalyzers(ctx, selection, names)
}

// listLibraries prints the aligned name, toolchain, and location listing of
// everything discoverable, resolving package directories without compiling
// them.
func listLibraries(ctx context.Context, selection *cmdutil.SelectionFlags, format output.Format) error {
	all := *selection
	all.All = true
	all.NoBuild = true

	res, _, err := cmdutil.ResolveLibraries(ctx, cmdutil.ResolveOpts{
		Selection: &all,
		Config:    globalConfig,
	})
	if err != nil {
		return err
	}
	if len(res.Libraries) == 0 {
		output.Warn("No libraries were found.")
		return nil
	}

	libs := make([]output.LibraryInfo, 0, len(res.Libraries))
	for _, lib := range res.Libraries {
		libs = append(libs, output.LibraryInfo{
			Name:      lib.Name,
			Toolchain: lib.Toolchain.String(),
			Path:      lib.Path,
			Origin:    lib.Origin(),
		})
	}
	return output.WriteLibraries(libs, output.ListOptions{Format: format, Writer: os.Stdout})
}

// listAnalyzers builds the selected libraries and runs each one through the
// driver in list mode, printing a heading per library first. The heading
// carries the toolchain only when the name resolved for several, and the
// location only when the name has several artifacts for the same toolchain.
func listAnalyzers(ctx context.Context, selection *cmdutil.SelectionFlags, names []string) error {
	res, rc, err := cmdutil.ResolveLibraries(ctx, cmdutil.ResolveOpts{
		Selection: selection,
		Names:     names,
		Config:    globalConfig,
	})
	if err != nil {
		return err
	}
	if len(res.Libraries) == 0 {
		output.Warn("No libraries were found.")
		return nil
	}

	toolchains := make(map[string]map[toolchain.ID]bool)
	artifacts := make(map[string]map[toolchain.ID]int)
	for _, lib := range res.Libraries {
		if toolchains[lib.Name] == nil {
			toolchains[lib.Name] = make(map[toolchain.ID]bool)
			artifacts[lib.Name] = make(map[toolchain.ID]int)
		}
		toolchains[lib.Name][lib.Toolchain] = true
		artifacts[lib.Name][lib.Toolchain]++
	}

	invoker := &invoke.Invoker{Builder: rc.Builder}
	for _, lib := range res.Libraries {
		heading := lib.Name
		if len(toolchains[lib.Name]) >= 2 {
			heading += "@" + lib.Toolchain.String()
		}
		if artifacts[lib.Name][lib.Toolchain] >= 2 {
			heading += " (" + output.DisplayLocation(lib.Path) + ")"
		}
		output.Println(heading)

		err := invoker.Run(ctx, invoke.Request{
			Groups: []resolve.Group{{Toolchain: lib.Toolchain, Paths: []string{lib.Path}}},
			List:   true,
		})
		if err != nil {
			cmdutil.PrintRunError(err)
			return &oerrors.ExitError{Code: oerrors.ExitCode(err), Err: err, Printed: true}
		}
		output.Println("")
	}
	return nil
}
