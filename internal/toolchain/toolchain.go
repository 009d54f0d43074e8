// Package toolchain determines which Go toolchain a target source tree pins.
//
// Plugins only load into a driver built by the exact same toolchain, so every
// artifact carries a toolchain identifier and resolution filters on it.
package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/mod/modfile"
)

// ID identifies one toolchain: a Go release channel plus the host platform,
// e.g. "go1.25.0-linux-amd64". Two artifacts are compatible only when their
// IDs are equal.
type ID string

// String returns the identifier string.
func (id ID) String() string {
	return string(id)
}

// Channel returns the Go release part of the identifier ("go1.25.0").
func (id ID) Channel() string {
	if i := strings.Index(string(id), "-"); i >= 0 {
		return string(id)[:i]
	}
	return string(id)
}

// Platform returns the GOOS-GOARCH part of the identifier.
func (id ID) Platform() string {
	if i := strings.Index(string(id), "-"); i >= 0 {
		return string(id)[i+1:]
	}
	return ""
}

// Make constructs an ID from a release channel and a platform pair.
func Make(channel, platform string) ID {
	return ID(channel + "-" + platform)
}

// Host returns the toolchain of the running binary.
func Host() ID {
	return Make(runtime.Version(), hostPlatform())
}

// Resolve returns the toolchain pinned by the module containing targetDir,
// falling back to the host toolchain. Absence of a pin, an unreadable go.mod,
// or a parse failure all fall back; Resolve never fails.
//
// The platform half is always the host's: plugins are loaded in-process on
// this machine regardless of where their pin came from.
func Resolve(targetDir string) ID {
	if channel := pinnedChannel(targetDir); channel != "" {
		return Make(channel, hostPlatform())
	}
	return Host()
}

// FindModuleRoot walks targetDir and its ancestors for a go.mod and returns
// the containing directory.
func FindModuleRoot(targetDir string) (string, bool) {
	dir, err := filepath.Abs(targetDir)
	if err != nil {
		return "", false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// pinnedChannel reads the nearest go.mod's toolchain directive, falling back
// to the go directive. Returns "" when nothing usable is pinned.
func pinnedChannel(targetDir string) string {
	root, ok := FindModuleRoot(targetDir)
	if !ok {
		return ""
	}

	path := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return ""
	}

	if f.Toolchain != nil && f.Toolchain.Name != "" && f.Toolchain.Name != "default" {
		return f.Toolchain.Name
	}
	if f.Go != nil && f.Go.Version != "" {
		return "go" + f.Go.Version
	}
	return ""
}

func hostPlatform() string {
	return runtime.GOOS + "-" + runtime.GOARCH
}
