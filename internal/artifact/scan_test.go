package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynalint/dynalint/internal/toolchain"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestScanMergesDirectories(t *testing.T) {
	tc := toolchain.ID("go1.25.0-linux-amd64")

	dirA := t.TempDir()
	dirB := t.TempDir()
	fooA := touch(t, dirA, Encode("foo", tc))
	fooB := touch(t, dirB, Encode("foo", tc))
	bar := touch(t, dirB, Encode("bar", tc))

	touch(t, dirA, "README.md")
	touch(t, dirA, "notalib.so")
	require.NoError(t, os.Mkdir(filepath.Join(dirA, Encode("dir", tc)), 0o755))

	ix, err := Scan([]string{dirA, dirB})
	require.NoError(t, err)

	assert.Equal(t, []string{"bar", "foo"}, ix.Names())
	assert.ElementsMatch(t, []string{fooA, fooB}, ix.Paths("foo", tc))
	assert.Equal(t, []string{bar}, ix.Paths("bar", tc))
	assert.NotContains(t, ix.Names(), "dir")
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := Scan([]string{filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}

func TestScanEmptyDirList(t *testing.T) {
	ix, err := Scan(nil)
	require.NoError(t, err)
	assert.True(t, ix.Empty())
}
