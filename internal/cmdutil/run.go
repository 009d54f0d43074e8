package cmdutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dynalint/dynalint/internal/build"
	"github.com/dynalint/dynalint/internal/config"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/fetch"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/resolve"
	"github.com/dynalint/dynalint/internal/toolchain"
	"github.com/dynalint/dynalint/internal/version"
)

// ResolveOpts holds the inputs for ResolveLibraries.
type ResolveOpts struct {
	// Selection is the parsed selection flag group.
	Selection *SelectionFlags

	// Names are the command's positional arguments.
	Names []string

	// TargetDir anchors toolchain detection and the workspace metadata
	// lookup. Empty means the current directory.
	TargetDir string

	// Config is the fully loaded global configuration.
	Config *config.Config
}

// ResolveLibraries executes the resolve preamble shared by check and list:
// flag validation, toolchain detection from the target module, search-path
// merging, and the tiered resolution itself. The returned context carries
// the builder and toolchain for the subsequent driver run.
//
// On failure it returns an *ExitError with the mapped exit code.
// Resolution failures are printed here, so callers only propagate.
func ResolveLibraries(ctx context.Context, opts ResolveOpts) (*resolve.Resolution, *resolve.Context, error) {
	if opts.Config == nil {
		return nil, nil, &oerrors.ExitError{Code: oerrors.ExitGeneral, Err: fmt.Errorf("configuration not loaded")}
	}
	if err := opts.Selection.Validate(); err != nil {
		return nil, nil, &oerrors.ExitError{Code: oerrors.ExitConfiguration, Err: err}
	}
	if opts.Selection.All && len(opts.Names) > 0 {
		return nil, nil, &oerrors.ExitError{
			Code: oerrors.ExitConfiguration,
			Err:  fmt.Errorf("`%s` cannot be used with --all", opts.Names[0]),
		}
	}

	targetDir := opts.TargetDir
	if targetDir == "" {
		targetDir = "."
	}
	absTarget, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, nil, &oerrors.ExitError{Code: oerrors.ExitGeneral, Err: fmt.Errorf("resolving target directory: %w", err)}
	}

	tc := toolchain.Resolve(absTarget)
	workspaceRoot, ok := toolchain.FindModuleRoot(absTarget)
	if !ok {
		workspaceRoot = absTarget
	}

	flagDirs, err := absDirs(opts.Selection.LibPaths)
	if err != nil {
		return nil, nil, &oerrors.ExitError{Code: oerrors.ExitConfiguration, Err: err}
	}
	envDirs := filepath.SplitList(os.Getenv("DYNALINT_LIBRARY_PATH"))
	searchPath := config.MergeLibraryPath(flagDirs, envDirs, opts.Config.LibraryPath)

	rc := &resolve.Context{
		Toolchain:     tc,
		SearchPath:    searchPath,
		WorkspaceRoot: workspaceRoot,
		Fetcher: &fetch.Fetcher{
			CacheDir:      opts.Config.CacheDir,
			WorkspaceRoot: workspaceRoot,
		},
		Builder: &build.Builder{
			CacheDir:     opts.Config.CacheDir,
			DriverDir:    opts.Config.DriverDir,
			Version:      version.Version,
			DriverSource: opts.Config.DriverSource,
		},
	}

	output.Debug("resolving libraries",
		"toolchain", tc.String(),
		"workspace", workspaceRoot,
		"search-dirs", len(searchPath))

	var res *resolve.Resolution
	err = output.RunWithSpinner(ctx, func() error {
		var rerr error
		res, rerr = resolve.Resolve(ctx, rc, opts.Selection.Request(opts.Names))
		return rerr
	}, output.WithTitle("Resolving libraries"))
	if err != nil {
		PrintResolveErrors(err)
		return nil, nil, &oerrors.ExitError{Code: oerrors.ExitCode(err), Err: err, Printed: true}
	}
	return res, rc, nil
}

// absDirs makes the flag-supplied search directories absolute. Entries from
// the environment and the config file are required to be absolute already;
// flags are typed interactively and get the convenience.
func absDirs(dirs []string) ([]string, error) {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving --lib-path %q: %w", dir, err)
		}
		out = append(out, abs)
	}
	return out, nil
}
