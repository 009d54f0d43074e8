package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynalint/dynalint/internal/config"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/testutil"
)

func TestConfigInitWritesDefaults(t *testing.T) {
	resetGlobals(t)
	configFlag = filepath.Join(t.TempDir(), "config.yaml")

	var err error
	out := captureStdout(t, func() {
		err = runConfigInit(nil, nil)
	})
	require.NoError(t, err)

	data, readErr := os.ReadFile(configFlag)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "cacheDir:")
	assert.Contains(t, string(data), "driverDir:")
	assert.Contains(t, string(data), "output: text")

	assert.Contains(t, out, "Configuration initialized at "+configFlag)
	assert.Contains(t, out, "dynalint config vet")

	// The file init writes must pass its own vet.
	assert.NoError(t, config.Vet(configFlag))
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	resetGlobals(t)
	configFlag = testutil.WriteFile(t, t.TempDir(), "config.yaml", "output: json\n")

	err := runConfigInit(nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "--force")

	data, readErr := os.ReadFile(configFlag)
	require.NoError(t, readErr)
	assert.Equal(t, "output: json\n", string(data), "a refused init must not touch the file")
}

func TestConfigInitForceOverwrites(t *testing.T) {
	resetGlobals(t)
	configFlag = testutil.WriteFile(t, t.TempDir(), "config.yaml", "output: json\n")
	configInitForce = true
	t.Cleanup(func() { configInitForce = false })

	var err error
	captureStdout(t, func() {
		err = runConfigInit(nil, nil)
	})
	require.NoError(t, err)

	data, readErr := os.ReadFile(configFlag)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "cacheDir:")
}

func TestConfigInitHonorsEnvPath(t *testing.T) {
	resetGlobals(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv("DYNALINT_CONFIG", path)

	var err error
	captureStdout(t, func() {
		err = runConfigInit(nil, nil)
	})
	require.NoError(t, err)

	assert.FileExists(t, path)
}
