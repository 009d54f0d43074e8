package cmdutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynalint/dynalint/internal/artifact"
	"github.com/dynalint/dynalint/internal/config"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/testutil"
	"github.com/dynalint/dynalint/internal/toolchain"
)

// chdir is testing.T.Chdir for toolchains predating Go 1.24: it moves the
// test into dir, updates PWD the same way, and restores the previous
// working directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	switch runtime.GOOS {
	case "windows", "plan9":
		// These platforms do not use the PWD variable.
	default:
		if !filepath.IsAbs(dir) {
			dir, err = os.Getwd()
			if err != nil {
				t.Fatal(err)
			}
		}
		t.Setenv("PWD", dir)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("chdir: restoring working directory: " + err.Error())
		}
	})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		CacheDir:  t.TempDir(),
		DriverDir: t.TempDir(),
		Output:    "text",
	}
}

// targetModule writes a target module pinning go 1.25.0 and returns its
// directory plus the toolchain that pin resolves to.
func targetModule(t *testing.T) (string, toolchain.ID) {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "go.mod", "module example.com/target\n\ngo 1.25.0\n")
	tc := toolchain.Resolve(dir)
	require.Equal(t, "go1.25.0", tc.Channel())
	return dir, tc
}

func TestResolveLibrariesRequiresConfig(t *testing.T) {
	_, _, err := ResolveLibraries(context.Background(), ResolveOpts{
		Selection: &SelectionFlags{All: true},
	})

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitGeneral, exitErr.Code)
}

func TestResolveLibrariesRejectsBadFlagCombination(t *testing.T) {
	_, _, err := ResolveLibraries(context.Background(), ResolveOpts{
		Selection: &SelectionFlags{Branch: "main"},
		Config:    testConfig(t),
	})

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitConfiguration, exitErr.Code)
	assert.Contains(t, err.Error(), "--git")
}

func TestResolveLibrariesRejectsNamesWithAll(t *testing.T) {
	_, _, err := ResolveLibraries(context.Background(), ResolveOpts{
		Selection: &SelectionFlags{All: true},
		Names:     []string{"foo"},
		Config:    testConfig(t),
	})

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitConfiguration, exitErr.Code)
	assert.Contains(t, err.Error(), "`foo` cannot be used with --all")
}

func TestResolveLibrariesFromLibPath(t *testing.T) {
	target, tc := targetModule(t)
	libDir := t.TempDir()
	fooPath := testutil.WriteFile(t, libDir, artifact.Encode("foo", tc), "x")

	res, rc, err := ResolveLibraries(context.Background(), ResolveOpts{
		Selection: &SelectionFlags{LibPaths: []string{libDir}},
		Names:     []string{"foo"},
		TargetDir: target,
		Config:    testConfig(t),
	})
	require.NoError(t, err)

	require.Len(t, res.Libraries, 1)
	assert.Equal(t, "foo", res.Libraries[0].Name)
	assert.Equal(t, fooPath, res.Libraries[0].Path)
	assert.Equal(t, 2, res.Libraries[0].Tier)

	// The context carries what the driver run needs next.
	assert.Equal(t, tc, rc.Toolchain)
	assert.Equal(t, target, rc.WorkspaceRoot)
	require.NotNil(t, rc.Builder)
	assert.NotEmpty(t, rc.Builder.CacheDir)
}

func TestResolveLibrariesMergesEnvironmentSearchPath(t *testing.T) {
	target, tc := targetModule(t)
	envDir := t.TempDir()
	testutil.WriteFile(t, envDir, artifact.Encode("foo", tc), "x")
	t.Setenv("DYNALINT_LIBRARY_PATH", envDir)

	flagDir := t.TempDir()
	res, rc, err := ResolveLibraries(context.Background(), ResolveOpts{
		Selection: &SelectionFlags{LibPaths: []string{flagDir}},
		Names:     []string{"foo"},
		TargetDir: target,
		Config:    testConfig(t),
	})
	require.NoError(t, err)

	require.Len(t, res.Libraries, 1)
	assert.Equal(t, "foo", res.Libraries[0].Name)
	// Flag directories order ahead of environment ones.
	assert.Equal(t, []string{flagDir, envDir}, rc.SearchPath)
}

func TestResolveLibrariesReportsNotFound(t *testing.T) {
	target, _ := targetModule(t)

	_, _, err := ResolveLibraries(context.Background(), ResolveOpts{
		Selection: &SelectionFlags{},
		Names:     []string{"missing"},
		TargetDir: target,
		Config:    testConfig(t),
	})

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitNotFound, exitErr.Code)
	assert.True(t, exitErr.Printed)
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestResolveLibrariesRelativeTargetDefaultsToCwd(t *testing.T) {
	target, tc := targetModule(t)
	libDir := t.TempDir()
	testutil.WriteFile(t, libDir, artifact.Encode("foo", tc), "x")
	t.Chdir(target)

	res, rc, err := ResolveLibraries(context.Background(), ResolveOpts{
		Selection: &SelectionFlags{LibPaths: []string{libDir}},
		Names:     []string{"foo"},
		Config:    testConfig(t),
	})
	require.NoError(t, err)

	require.Len(t, res.Libraries, 1)
	assert.Equal(t, tc, rc.Toolchain)
}
