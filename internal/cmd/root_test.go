package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynalint/dynalint/internal/config"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/testutil"
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

// resetGlobals restores the package-level flag and config state after a
// test that mutates it.
func resetGlobals(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		verboseFlag = false
		quietFlag = false
		configFlag = ""
		outputFlag = ""
		globalConfig = nil
	})
}

// testGlobalConfig points the global configuration at per-test cache
// directories.
func testGlobalConfig(t *testing.T) {
	t.Helper()
	resetGlobals(t)
	globalConfig = &config.Config{
		CacheDir:  t.TempDir(),
		DriverDir: t.TempDir(),
		Output:    "text",
	}
}

// captureStdout runs fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

// captureLog redirects the structured logger into a buffer for the rest of
// the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	output.SetLogWriter(&buf)
	t.Cleanup(func() { output.SetLogWriter(os.Stderr) })
	return &buf
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "dynalint", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"check", "list", "new", "upgrade", "config", "version"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"verbose", "quiet", "config", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing persistent flag %q", flag)
	}
}

func TestInitializeGlobals(t *testing.T) {
	t.Run("loads config with defaults", func(t *testing.T) {
		resetGlobals(t)
		configFlag = testutil.WriteFile(t, t.TempDir(), "config.yaml",
			"cacheDir: /tmp/lint-cache\n")

		require.NoError(t, initializeGlobals())

		require.NotNil(t, globalConfig)
		assert.Equal(t, "/tmp/lint-cache", globalConfig.CacheDir)
		assert.NotEmpty(t, globalConfig.DriverDir)
		assert.Equal(t, "text", globalConfig.Output)
	})

	t.Run("malformed config file", func(t *testing.T) {
		resetGlobals(t)
		configFlag = testutil.WriteFile(t, t.TempDir(), "config.yaml",
			"cacheDir: [unclosed\n")

		err := initializeGlobals()

		var exitErr *oerrors.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, oerrors.ExitConfiguration, exitErr.Code)
	})

	t.Run("unknown output format", func(t *testing.T) {
		resetGlobals(t)
		configFlag = testutil.WriteFile(t, t.TempDir(), "config.yaml", "")
		outputFlag = "yaml"

		err := initializeGlobals()

		var exitErr *oerrors.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, oerrors.ExitConfiguration, exitErr.Code)
		assert.Contains(t, err.Error(), "valid formats: text, json")
	})
}

func TestOutputFormat(t *testing.T) {
	t.Run("defaults to text", func(t *testing.T) {
		resetGlobals(t)

		f, err := outputFormat()
		require.NoError(t, err)
		assert.Equal(t, output.FormatText, f)
	})

	t.Run("config file value applies", func(t *testing.T) {
		resetGlobals(t)
		globalConfig = &config.Config{Output: "json"}

		f, err := outputFormat()
		require.NoError(t, err)
		assert.Equal(t, output.FormatJSON, f)
	})

	t.Run("flag wins over config", func(t *testing.T) {
		resetGlobals(t)
		globalConfig = &config.Config{Output: "json"}
		outputFlag = "text"

		f, err := outputFormat()
		require.NoError(t, err)
		assert.Equal(t, output.FormatText, f)
	})

	t.Run("unknown value", func(t *testing.T) {
		resetGlobals(t)
		outputFlag = "table"

		_, err := outputFormat()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown output format "table"`)
	})
}
