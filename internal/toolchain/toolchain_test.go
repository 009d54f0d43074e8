package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDParts(t *testing.T) {
	tests := []struct {
		name     string
		id       ID
		channel  string
		platform string
	}{
		{
			name:     "full release",
			id:       "go1.25.0-linux-amd64",
			channel:  "go1.25.0",
			platform: "linux-amd64",
		},
		{
			name:     "minor only",
			id:       "go1.21-darwin-arm64",
			channel:  "go1.21",
			platform: "darwin-arm64",
		},
		{
			name:     "channel without platform",
			id:       "go1.25.0",
			channel:  "go1.25.0",
			platform: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.channel, tt.id.Channel())
			assert.Equal(t, tt.platform, tt.id.Platform())
		})
	}
}

func TestHost(t *testing.T) {
	id := Host()

	assert.Equal(t, runtime.Version(), id.Channel())
	assert.Equal(t, runtime.GOOS+"-"+runtime.GOARCH, id.Platform())
}

func TestResolveToolchainDirective(t *testing.T) {
	dir := t.TempDir()
	writeGoMod(t, dir, "module example.com/target\n\ngo 1.24\n\ntoolchain go1.24.5\n")

	id := Resolve(dir)

	assert.Equal(t, "go1.24.5", id.Channel())
	assert.Equal(t, runtime.GOOS+"-"+runtime.GOARCH, id.Platform())
}

func TestResolveGoDirectiveFallback(t *testing.T) {
	dir := t.TempDir()
	writeGoMod(t, dir, "module example.com/target\n\ngo 1.23.1\n")

	id := Resolve(dir)

	assert.Equal(t, "go1.23.1", id.Channel())
}

func TestResolveWalksAncestors(t *testing.T) {
	root := t.TempDir()
	writeGoMod(t, root, "module example.com/target\n\ntoolchain go1.24.5\n")
	nested := filepath.Join(root, "internal", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	id := Resolve(nested)

	assert.Equal(t, "go1.24.5", id.Channel())
}

func TestResolveNoPinFallsBackToHost(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, Host(), Resolve(dir))
}

func TestResolveMalformedGoModFallsBackToHost(t *testing.T) {
	dir := t.TempDir()
	writeGoMod(t, dir, "module \"unterminated\n(((\n")

	assert.Equal(t, Host(), Resolve(dir))
}

func TestResolveToolchainDefaultIgnored(t *testing.T) {
	dir := t.TempDir()
	writeGoMod(t, dir, "module example.com/target\n\ngo 1.24.0\n\ntoolchain default\n")

	id := Resolve(dir)

	assert.Equal(t, "go1.24.0", id.Channel())
}

func TestFindModuleRoot(t *testing.T) {
	root := t.TempDir()
	writeGoMod(t, root, "module example.com/target\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := FindModuleRoot(nested)
	require.True(t, ok)
	// Compare resolved paths; t.TempDir may sit behind a symlink on darwin.
	wantInfo, err := os.Stat(root)
	require.NoError(t, err)
	gotInfo, err := os.Stat(found)
	require.NoError(t, err)
	assert.True(t, os.SameFile(wantInfo, gotInfo))

	_, ok = FindModuleRoot(string(filepath.Separator))
	assert.False(t, ok)
}

func writeGoMod(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(content), 0o644))
}
