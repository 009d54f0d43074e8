package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/testutil"
	"github.com/dynalint/dynalint/internal/version"
)

func pluginGoMod(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "go.mod", content)
	return dir
}

func readGoMod(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	require.NoError(t, err)
	return string(data)
}

func TestUpgradeRewritesPins(t *testing.T) {
	resetGlobals(t)
	dir := pluginGoMod(t, "module example.com/deadcode\n\ngo 1.24.0\n\nrequire golang.org/x/tools v0.30.0\n")

	var err error
	out := captureStdout(t, func() {
		err = runUpgrade(dir, "1.25.1", false)
	})
	require.NoError(t, err)

	gomod := readGoMod(t, dir)
	assert.Contains(t, gomod, "go 1.25.1")
	assert.Contains(t, gomod, "golang.org/x/tools "+version.ToolsVersion)
	assert.Contains(t, out, "Upgraded:")
	assert.Contains(t, out, "golang.org/x/tools")
}

func TestUpgradeAcceptsGoPrefix(t *testing.T) {
	resetGlobals(t)
	dir := pluginGoMod(t, "module example.com/deadcode\n\ngo 1.24.0\n")

	var err error
	captureStdout(t, func() {
		err = runUpgrade(dir, "go1.25.1", false)
	})
	require.NoError(t, err)

	assert.Contains(t, readGoMod(t, dir), "go 1.25.1")
}

func TestUpgradeMovesToolchainDirective(t *testing.T) {
	resetGlobals(t)
	dir := pluginGoMod(t, "module example.com/deadcode\n\ngo 1.24.0\n\ntoolchain go1.24.2\n")

	var err error
	captureStdout(t, func() {
		err = runUpgrade(dir, "1.25.1", false)
	})
	require.NoError(t, err)

	gomod := readGoMod(t, dir)
	assert.Contains(t, gomod, "go 1.25.1")
	assert.Contains(t, gomod, "toolchain go1.25.1")
}

func TestUpgradeRefusesDowngrade(t *testing.T) {
	resetGlobals(t)
	original := "module example.com/deadcode\n\ngo 1.26.0\n"
	dir := pluginGoMod(t, original)

	err := runUpgrade(dir, "1.25.0", false)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitConfiguration, exitErr.Code)
	assert.Contains(t, err.Error(), "--allow-downgrade")
	assert.Equal(t, original, readGoMod(t, dir), "a refused upgrade must not touch the file")
}

func TestUpgradeAllowsExplicitDowngrade(t *testing.T) {
	resetGlobals(t)
	dir := pluginGoMod(t, "module example.com/deadcode\n\ngo 1.26.0\n")

	var err error
	captureStdout(t, func() {
		err = runUpgrade(dir, "1.25.0", true)
	})
	require.NoError(t, err)

	assert.Contains(t, readGoMod(t, dir), "go 1.25.0")
}

func TestUpgradeNothingToDo(t *testing.T) {
	resetGlobals(t)
	content := "module example.com/deadcode\n\ngo 1.25.1\n\nrequire golang.org/x/tools " + version.ToolsVersion + "\n"
	dir := pluginGoMod(t, content)

	var err error
	out := captureStdout(t, func() {
		err = runUpgrade(dir, "1.25.1", false)
	})
	require.NoError(t, err)

	assert.Contains(t, out, "No changes detected.")
	assert.Equal(t, content, readGoMod(t, dir))
}

func TestUpgradeRejectsInvalidVersion(t *testing.T) {
	resetGlobals(t)
	dir := pluginGoMod(t, "module example.com/deadcode\n\ngo 1.24.0\n")

	err := runUpgrade(dir, "not-a-version", false)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitConfiguration, exitErr.Code)
}

func TestUpgradeOutsidePluginPackage(t *testing.T) {
	resetGlobals(t)

	err := runUpgrade(t.TempDir(), "1.25.1", false)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitConfiguration, exitErr.Code)
	assert.Contains(t, err.Error(), "not a plugin package")
}
