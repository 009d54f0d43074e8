package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/lockfile"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/toolchain"
)

// enginePath is the module the generated driver depends on.
const enginePath = "github.com/dynalint/dynalint"

const driversReadme = `This directory holds dynalint driver binaries, one per Go toolchain.
dynalint rebuilds them on demand; deleting this directory is safe.
`

// DriverName returns the driver binary filename for the host platform.
func DriverName() string {
	if runtime.GOOS == "windows" {
		return "dynalint-driver.exe"
	}
	return "dynalint-driver"
}

// EnsureDriver returns the path of a driver binary built by this engine
// version for tc, building one if the cached binary is missing or was built
// by a different version.
func (b *Builder) EnsureDriver(ctx context.Context, tc toolchain.ID) (string, error) {
	dir := filepath.Join(b.DriverDir, tc.String())
	bin := filepath.Join(dir, DriverName())
	versionFile := filepath.Join(dir, "version")

	unlock, err := lockfile.Acquire(ctx, filepath.Join(b.DriverDir, tc.String()+".lock"))
	if err != nil {
		return "", err
	}
	defer unlock()

	if current, err := os.ReadFile(versionFile); err == nil &&
		strings.TrimSpace(string(current)) == b.Version {
		if _, err := os.Stat(bin); err == nil {
			return bin, nil
		}
	}

	if err := b.buildDriver(ctx, tc, dir, bin); err != nil {
		return "", err
	}
	if err := os.WriteFile(versionFile, []byte(b.Version+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("recording driver version: %w", err)
	}
	writeDriversReadme(b.DriverDir)
	return bin, nil
}

// buildDriver compiles the driver from a generated throwaway module that
// depends on this engine at the matching version.
func (b *Builder) buildDriver(ctx context.Context, tc toolchain.ID, dir, bin string) error {
	if b.DriverSource == "" && !semver.IsValid(canonicalVersion(b.Version)) {
		return oerrors.NewConfigurationError(
			fmt.Sprintf("cannot build a driver for unreleased engine version %q", b.Version),
			"", "",
			"set DYNALINT_DRIVER_SOURCE to a dynalint source tree for development builds",
		)
	}

	output.Info("building driver", "toolchain", tc.String(), "version", b.Version)

	tmp, err := os.MkdirTemp("", "dynalint-driver-*")
	if err != nil {
		return fmt.Errorf("creating driver module directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	files := map[string]string{
		"go.mod":  driverGoMod(b.Version, tc, b.DriverSource),
		"main.go": driverMainGo(),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmp, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing driver module: %w", err)
		}
	}

	goBin := b.gotool()
	if out, err := goBin.ModTidy(ctx, tmp, tc); err != nil {
		return &oerrors.BuildError{Package: "dynalint-driver", Output: string(out), Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating driver directory: %w", err)
	}
	if out, err := goBin.Build(ctx, tmp, bin, tc); err != nil {
		return &oerrors.BuildError{Package: "dynalint-driver", Output: string(out), Err: err}
	}
	return nil
}

// driverGoMod renders the throwaway driver module's go.mod. source, when
// non-empty, redirects the engine dependency to a local tree.
func driverGoMod(version string, tc toolchain.ID, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module dynalint.localhost/driver\n\n")
	fmt.Fprintf(&b, "go %s\n\n", strings.TrimPrefix(tc.Channel(), "go"))

	required := canonicalVersion(version)
	if !semver.IsValid(required) {
		required = "v0.0.0"
	}
	fmt.Fprintf(&b, "require %s %s\n", enginePath, required)
	if source != "" {
		fmt.Fprintf(&b, "\nreplace %s => %s\n", enginePath, source)
	}
	return b.String()
}

func driverMainGo() string {
	return fmt.Sprintf(`package main

import "%s/driver"

func main() {
	driver.Main()
}
`, enginePath)
}

func canonicalVersion(version string) string {
	return "v" + strings.TrimPrefix(version, "v")
}

func writeDriversReadme(driverDir string) {
	path := filepath.Join(driverDir, "README.txt")
	if _, err := os.Stat(path); err == nil {
		return
	}
	os.WriteFile(path, []byte(driversReadme), 0o644)
}

// InstalledDriver describes one cached driver binary.
type InstalledDriver struct {
	Toolchain toolchain.ID
	Version   string
	Path      string
}

// InstalledDrivers lists the driver binaries present under driverDir, sorted
// by toolchain. A missing cache directory is an empty list, not an error.
func InstalledDrivers(driverDir string) ([]InstalledDriver, error) {
	entries, err := os.ReadDir(driverDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading driver cache: %w", err)
	}

	var drivers []InstalledDriver
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, "go") || !strings.Contains(name, "-") {
			continue
		}
		bin := filepath.Join(driverDir, name, DriverName())
		if _, err := os.Stat(bin); err != nil {
			continue
		}
		drv := InstalledDriver{Toolchain: toolchain.ID(name), Path: bin}
		if raw, err := os.ReadFile(filepath.Join(driverDir, name, "version")); err == nil {
			drv.Version = strings.TrimSpace(string(raw))
		}
		drivers = append(drivers, drv)
	}

	sort.Slice(drivers, func(i, j int) bool {
		return drivers[i].Toolchain < drivers[j].Toolchain
	})
	return drivers, nil
}
