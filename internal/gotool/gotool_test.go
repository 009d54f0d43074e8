package gotool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dynalint/dynalint/internal/toolchain"
)

func TestEnviron(t *testing.T) {
	base := []string{"HOME=/home/u", "GOROOT=/usr/local/go", "PATH=/usr/bin"}

	env := Environ(base, toolchain.ID("go1.25.0-linux-amd64"))

	_, hasRoot := Get(env, "GOROOT")
	assert.False(t, hasRoot)

	tc, ok := Get(env, "GOTOOLCHAIN")
	assert.True(t, ok)
	assert.Equal(t, "go1.25.0", tc)

	home, ok := Get(env, "HOME")
	assert.True(t, ok)
	assert.Equal(t, "/home/u", home)
}

func TestEnvironWithoutToolchain(t *testing.T) {
	base := []string{"GOTOOLCHAIN=auto", "GOROOT=/usr/local/go"}

	env := Environ(base, "")

	tc, ok := Get(env, "GOTOOLCHAIN")
	assert.True(t, ok)
	assert.Equal(t, "auto", tc)
	_, hasRoot := Get(env, "GOROOT")
	assert.False(t, hasRoot)
}

func TestSetReplacesExisting(t *testing.T) {
	env := []string{"A=1", "B=2", "A=3"}

	env = Set(env, "A", "4")

	v, ok := Get(env, "A")
	assert.True(t, ok)
	assert.Equal(t, "4", v)

	count := 0
	for _, kv := range env {
		if kv == "A=4" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUnsetLeavesOtherKeys(t *testing.T) {
	env := Unset([]string{"A=1", "AB=2", "A=3"}, "A")

	assert.Equal(t, []string{"AB=2"}, env)
}

func TestGetLastEntryWins(t *testing.T) {
	v, ok := Get([]string{"A=1", "A=2"}, "A")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = Get([]string{"A=1"}, "B")
	assert.False(t, ok)
}

func TestPathDefaultsToGo(t *testing.T) {
	assert.Equal(t, "go", (&Binary{}).path())
	assert.Equal(t, "/opt/go/bin/go", (&Binary{Path: "/opt/go/bin/go"}).path())
}
