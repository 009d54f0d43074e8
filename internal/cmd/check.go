// Package cmd provides CLI command implementations.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dynalint/dynalint/internal/cmdutil"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/invoke"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/resolve"
	"github.com/dynalint/dynalint/internal/toolchain"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var (
		selection cmdutil.SelectionFlags
		run       cmdutil.RunFlags
	)

	cmd := &cobra.Command{
		Use:   "check [libraries] [-- [driver flags] [packages]]",
		Short: "Run analyzer libraries against a module",
		Long: `Run analyzer libraries against a target module.

Libraries are selected by name, by --all, or ad hoc with --git and
--path. Named libraries resolve through the artifact search path, the
workspace metadata, and finally literal paths. Everything selected is
built for the target module's toolchain before the driver runs.

Arguments after -- go to the driver: flag arguments configure the
loaded analyzers (-analyzer.flag=value), and the remaining arguments
are package patterns, defaulting to ./... .

Examples:
  # Run every library the workspace declares
  dynalint check --all

  # Run two libraries by name against ./services/api
  dynalint check --dir ./services/api deadcode shadowcheck

  # Build and run libraries from a git repository
  dynalint check --git https://github.com/acme/lints --tag v1.4.0

  # Pass analyzer flags and package patterns to the driver
  dynalint check --all -- -deadcode.aggressive=true ./cmd/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			var driverArgs []string
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				names = args[:at]
				driverArgs = args[at:]
			}
			return runCheck(cmd.Context(), &selection, &run, names, driverArgs)
		},
	}

	selection.AddTo(cmd)
	run.AddTo(cmd)

	return cmd
}

func runCheck(ctx context.Context, selection *cmdutil.SelectionFlags, run *cmdutil.RunFlags, names, driverArgs []string) error {
	if !selection.HasSelection(names) {
		output.Warn("Nothing to do. Did you forget `--all`?")
		return nil
	}

	format, err := outputFormat()
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfiguration, Err: err}
	}

	res, rc, err := cmdutil.ResolveLibraries(ctx, cmdutil.ResolveOpts{
		Selection: selection,
		Names:     names,
		TargetDir: run.Dir,
		Config:    globalConfig,
	})
	if err != nil {
		return err
	}

	groups := res.ByToolchain()
	if len(groups) == 0 {
		output.Warn("No libraries were found.")
		return nil
	}

	if verboseFlag {
		writeResolutionReport(res, names, rc.Toolchain, format)
	}

	driverFlags, patterns := splitDriverArgs(driverArgs)
	invoker := &invoke.Invoker{Builder: rc.Builder}
	err = invoker.Run(ctx, invoke.Request{
		Groups:      groups,
		TargetDir:   run.Dir,
		Patterns:    patterns,
		DriverFlags: driverFlags,
		JSON:        format == output.FormatJSON,
		Fix:         run.Fix,
		KeepGoing:   run.KeepGoing,
		Timeout:     run.Timeout,
	})
	if err != nil {
		cmdutil.PrintRunError(err)
		return &oerrors.ExitError{Code: oerrors.ExitCode(err), Err: err, Printed: true}
	}
	return nil
}

// splitDriverArgs divides the arguments after -- into driver flags and
// package patterns. Analyzer flags are canonically -flag=value, so the
// first argument without a dash starts the patterns; leaving the
// patterns empty keeps the driver's ./... default.
func splitDriverArgs(args []string) (flags, patterns []string) {
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

// writeResolutionReport prints the verbose account of what resolved and
// from which tier, on stderr so driver output stays clean.
func writeResolutionReport(res *resolve.Resolution, requested []string, target toolchain.ID, format output.Format) {
	report := &output.ResolutionReport{Requested: requested}
	for _, lib := range res.Libraries {
		report.Libraries = append(report.Libraries, output.LibraryInfo{
			Name:      lib.Name,
			Toolchain: lib.Toolchain.String(),
			Path:      lib.Path,
			Origin:    lib.Origin(),
		})
		if lib.Toolchain != target {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"%s was built for %s, not the target's %s, and runs under its own driver",
				lib.Name, lib.Toolchain, target))
		}
	}
	opts := output.ReportOptions{JSON: format == output.FormatJSON, Writer: os.Stderr}
	if err := output.WriteResolutionReport(report, opts); err != nil {
		output.Debug("writing resolution report", "error", err)
	}
}
