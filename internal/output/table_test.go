package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLibraryTable(t *testing.T) {
	rows := []LibraryRow{
		{Name: "a", Toolchain: "go1.25.0-linux-amd64", Location: "~/.dynalint/cache/builds"},
		{Name: "longer_name", Toolchain: "go1.24.0-linux-amd64", Location: "plugins/local"},
	}

	out := stripAnsi(RenderLibraryTable(rows))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[0], "TOOLCHAIN")
	assert.Contains(t, lines[0], "LOCATION")

	// Toolchain columns start at the same offset on every line.
	idx1 := strings.Index(lines[1], "go1.25.0")
	idx2 := strings.Index(lines[2], "go1.24.0")
	assert.Equal(t, idx1, idx2, "toolchain column should align")
	assert.Contains(t, lines[1], "~/.dynalint/cache/builds")
	assert.Contains(t, lines[2], "plugins/local")
}

func TestTableRendersHeadersAndRows(t *testing.T) {
	tbl := NewTable("KEY", "VALUE").
		Row("engine", "0.3.0").
		Row("go", "go1.25.0")

	out := stripAnsi(tbl.String())
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "engine")
	assert.Contains(t, out, "go1.25.0")
}

func TestDisplayLocation(t *testing.T) {
	t.Run("missing artifact", func(t *testing.T) {
		got := DisplayLocation(filepath.Join(t.TempDir(), "missing.so"))
		assert.Equal(t, "<unbuilt>", got)
	})

	t.Run("under the working directory", func(t *testing.T) {
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		sub := filepath.Join(dir, "plugins")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		artifact := filepath.Join(sub, "a.so")
		require.NoError(t, os.WriteFile(artifact, []byte("x"), 0o644))

		t.Chdir(dir)

		assert.Equal(t, "plugins", DisplayLocation(artifact))
	})

	t.Run("package directory is its own location", func(t *testing.T) {
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		pkg := filepath.Join(dir, "plugins", "deadcode")
		require.NoError(t, os.MkdirAll(pkg, 0o755))

		t.Chdir(dir)

		assert.Equal(t, filepath.Join("plugins", "deadcode"), DisplayLocation(pkg))
	})

	t.Run("outside the working directory", func(t *testing.T) {
		dir := t.TempDir()
		artifact := filepath.Join(dir, "a.so")
		require.NoError(t, os.WriteFile(artifact, []byte("x"), 0o644))

		t.Chdir(t.TempDir())

		got := DisplayLocation(artifact)
		assert.NotEqual(t, "<unbuilt>", got)
		assert.False(t, strings.HasPrefix(got, ".."), "locations outside the working directory stay absolute")
	})
}

func TestCompressHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"under home", filepath.Join(home, ".dynalint", "cache"), filepath.Join("~", ".dynalint", "cache")},
		{"exactly home", home, "~"},
		{"outside home", filepath.Join(string(os.PathSeparator)+"opt", "libs"), filepath.Join(string(os.PathSeparator)+"opt", "libs")},
		{"relative", "plugins/local", "plugins/local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressHome(tt.input))
		})
	}
}
