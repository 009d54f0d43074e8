package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	paths, err := DefaultPaths()
	require.NoError(t, err)

	home := filepath.Join(homeDir, ".dynalint")
	assert.Equal(t, home, paths.HomeDir)
	assert.Equal(t, filepath.Join(home, "config.yaml"), paths.ConfigFile)
	assert.Equal(t, filepath.Join(home, "cache"), paths.CacheDir)
	assert.Equal(t, filepath.Join(home, "drivers"), paths.DriverDir)
}

func TestGetConfigFile(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("DYNALINT_CONFIG", "/custom/config.yaml")
		path, err := GetConfigFile()
		require.NoError(t, err)
		assert.Equal(t, "/custom/config.yaml", path)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("DYNALINT_CONFIG", "")
		homeDir, err := os.UserHomeDir()
		require.NoError(t, err)

		path, err := GetConfigFile()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(homeDir, ".dynalint", "config.yaml"), path)
	})
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no tilde",
			input:    "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: homeDir,
		},
		{
			name:     "tilde with slash",
			input:    "~/.dynalint/cache",
			expected: filepath.Join(homeDir, ".dynalint", "cache"),
		},
		{
			name:     "tilde username pattern (not expanded)",
			input:    "~user/file",
			expected: "~user/file",
		},
		{
			name:     "tilde in middle (not expanded)",
			input:    "/path/~/file",
			expected: "/path/~/file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
