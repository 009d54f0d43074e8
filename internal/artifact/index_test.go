package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dynalint/dynalint/internal/toolchain"
)

func TestIndexAddDedupesExactPaths(t *testing.T) {
	tc := toolchain.ID("go1.25.0-linux-amd64")

	ix := NewIndex()
	ix.Add("foo", tc, "/a/libfoo.so")
	ix.Add("foo", tc, "/a/libfoo.so")
	ix.Add("foo", tc, "/b/libfoo.so")

	assert.Equal(t, []string{"/a/libfoo.so", "/b/libfoo.so"}, ix.Paths("foo", tc))
}

func TestIndexSortedAccessors(t *testing.T) {
	old := toolchain.ID("go1.24.0-linux-amd64")
	cur := toolchain.ID("go1.25.0-linux-amd64")

	ix := NewIndex()
	ix.Add("zeta", cur, "/z")
	ix.Add("alpha", cur, "/a2")
	ix.Add("alpha", old, "/a1")

	assert.Equal(t, []string{"alpha", "zeta"}, ix.Names())
	assert.Equal(t, []toolchain.ID{old, cur}, ix.Toolchains("alpha"))
	assert.Empty(t, ix.Toolchains("missing"))
	assert.Empty(t, ix.Paths("missing", cur))
}

func TestIndexMerge(t *testing.T) {
	tc := toolchain.ID("go1.25.0-linux-amd64")

	a := NewIndex()
	a.Add("foo", tc, "/first/libfoo.so")

	b := NewIndex()
	b.Add("foo", tc, "/second/libfoo.so")
	b.Add("foo", tc, "/first/libfoo.so")
	b.Add("bar", tc, "/second/libbar.so")

	a.Merge(b)

	assert.Equal(t, []string{"bar", "foo"}, a.Names())
	assert.Equal(t, []string{"/first/libfoo.so", "/second/libfoo.so"}, a.Paths("foo", tc))
	assert.Equal(t, []string{"/second/libbar.so"}, a.Paths("bar", tc))
}

func TestIndexEmpty(t *testing.T) {
	ix := NewIndex()
	assert.True(t, ix.Empty())

	ix.Add("foo", toolchain.ID("go1.25.0-linux-amd64"), "/p")
	assert.False(t, ix.Empty())
}
