// Package version provides version information for the dynalint CLI.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// MinGoVersion is the oldest Go release the engine can drive. Driver modules
// require the engine module itself, so the floor matches the engine's own go
// directive; older toolchains cannot compile the driver.
const MinGoVersion = "go1.25.0"

// ToolsVersion is the golang.org/x/tools release the driver links against.
// Scaffolded packages pin the same release so their analysis.Analyzer values
// load into the driver without a version skew.
const ToolsVersion = "v0.39.0"

// HostGoVersion returns the host toolchain release as bare digits and dots,
// suitable for a go.mod go directive. Development builds of Go report a
// non-release version; those fall back to MinGoVersion.
func HostGoVersion() string {
	v := strings.TrimPrefix(runtime.Version(), "go")
	for _, r := range v {
		if (r < '0' || r > '9') && r != '.' {
			return strings.TrimPrefix(MinGoVersion, "go")
		}
	}
	return v
}

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version the engine was built with.
	GoVersion string `json:"goVersion"`

	// MinGoVersion is the oldest Go release the engine can drive.
	MinGoVersion string `json:"minGoVersion"`
}

// GoBinaryInfo contains information about the go binary in PATH.
type GoBinaryInfo struct {
	// Version is the go binary version.
	Version string `json:"version"`

	// Path is the path to the go binary.
	Path string `json:"path"`

	// Compatible indicates whether the binary meets MinGoVersion.
	Compatible bool `json:"compatible"`

	// Found indicates whether a go binary was found.
	Found bool `json:"found"`

	// Message provides additional information about compatibility.
	Message string `json:"message,omitempty"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:      Version,
		GitCommit:    GitCommit,
		BuildDate:    BuildDate,
		GoVersion:    runtime.Version(),
		MinGoVersion: MinGoVersion,
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("dynalint:\n  Version:    %s\n  Build ID:   %s/%s\n  Built With: %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion)
}

// GoVersionCompatible reports whether a go binary version satisfies the
// minimum the engine supports.
func GoVersionCompatible(minVersion, binaryVersion string) bool {
	minSemver := goSemver(minVersion)
	binSemver := goSemver(binaryVersion)
	if !semver.IsValid(minSemver) || !semver.IsValid(binSemver) {
		return false
	}
	return semver.Compare(binSemver, minSemver) >= 0
}

// CompatibilityMessage returns a message explaining version compatibility.
func CompatibilityMessage(minVersion, binaryVersion string) string {
	if GoVersionCompatible(minVersion, binaryVersion) {
		return "compatible"
	}
	if !semver.IsValid(goSemver(binaryVersion)) {
		return "incompatible - invalid version format"
	}
	return "incompatible - requires " + minVersion + " or newer"
}

// goSemver converts a Go release string ("go1.25.0") to semver form
// ("v1.25.0") for comparison.
func goSemver(version string) string {
	return "v" + strings.TrimPrefix(version, "go")
}

// String returns a human-readable go binary info string.
func (g GoBinaryInfo) String() string {
	if !g.Found {
		return "  Binary Version: not found\n  Binary Path:    -"
	}

	compatStr := "compatible"
	if !g.Compatible {
		compatStr = g.Message
	}

	return fmt.Sprintf("  Binary Version: %s (%s)\n  Binary Path:    %s",
		g.Version, compatStr, g.Path)
}

// FullVersionString returns complete version information including the go
// binary.
func FullVersionString(info Info, goInfo GoBinaryInfo) string {
	return fmt.Sprintf("%s\n\nGo:\n%s", info.String(), goInfo.String())
}
