// Package build compiles plugin packages into loadable artifacts.
//
// Artifacts land in a per-(package, toolchain) cache directory. A build is
// skipped when the package's fingerprint matches the last successful build
// and its artifacts still exist; concurrent builds of the same pair
// serialize on a lock file, so independent processes do the compile once.
package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dynalint/dynalint/internal/artifact"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/gotool"
	"github.com/dynalint/dynalint/internal/lockfile"
	"github.com/dynalint/dynalint/internal/toolchain"
)

// Builder compiles plugin packages and driver binaries.
type Builder struct {
	// CacheDir is the cache root; build output lands under CacheDir/builds.
	CacheDir string

	// DriverDir holds driver binaries, one subdirectory per toolchain.
	DriverDir string

	// Version is the engine version a driver build must match.
	Version string

	// DriverSource, when set, redirects the driver's engine dependency to a
	// local source tree instead of the published module.
	DriverSource string

	// Go overrides the go binary wrapper. Nil means the PATH default.
	Go *gotool.Binary
}

// Name returns the logical plugin name a package directory builds under.
func Name(pkgDir string) string {
	return filepath.Base(filepath.Clean(pkgDir))
}

type cacheEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Artifacts   []string  `json:"artifacts"`
	BuiltAt     time.Time `json:"built_at"`
}

// Build compiles the package in pkgDir as a plugin for tc and returns the
// artifact paths. An up-to-date cached build is returned without compiling.
func (b *Builder) Build(ctx context.Context, pkgDir string, tc toolchain.ID) ([]string, error) {
	abs, err := filepath.Abs(pkgDir)
	if err != nil {
		return nil, fmt.Errorf("resolving package path: %w", err)
	}

	base := filepath.Join(b.CacheDir, "builds", buildKey(abs))
	outDir := filepath.Join(base, tc.String())
	statePath := filepath.Join(base, tc.String()+".json")

	unlock, err := lockfile.Acquire(ctx, filepath.Join(base, tc.String()+".lock"))
	if err != nil {
		return nil, err
	}
	defer unlock()

	fp, err := fingerprint(abs, tc)
	if err != nil {
		return nil, &oerrors.BuildError{Package: abs, Err: err}
	}

	// Another process may have finished this exact build while we waited
	// for the lock.
	if artifacts, ok := cached(statePath, fp); ok {
		return artifacts, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating build directory: %w", err)
	}
	outPath := filepath.Join(outDir, artifact.Encode(Name(abs), tc))
	output, err := b.gotool().BuildPlugin(ctx, abs, outPath, tc)
	if err != nil {
		return nil, &oerrors.BuildError{Package: abs, Output: string(output), Err: err}
	}

	artifacts := []string{outPath}
	writeState(statePath, cacheEntry{
		Fingerprint: fp,
		Artifacts:   artifacts,
		BuiltAt:     time.Now(),
	})
	return artifacts, nil
}

func (b *Builder) gotool() *gotool.Binary {
	if b.Go != nil {
		return b.Go
	}
	return gotool.NewBinary()
}

func buildKey(pkgDir string) string {
	sum := sha256.Sum256([]byte(pkgDir))
	return hex.EncodeToString(sum[:8])
}

// fingerprint hashes the package's file metadata rather than contents:
// relative path, size, and mtime of every file, plus the toolchain. Cheap
// enough to recompute on every invocation.
func fingerprint(pkgDir string, tc toolchain.ID) (string, error) {
	var lines []string
	err := filepath.WalkDir(pkgDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(pkgDir, p)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%s\x00%d\x00%d",
			filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano()))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", pkgDir, err)
	}
	sort.Strings(lines)

	h := sha256.New()
	io.WriteString(h, tc.String())
	for _, line := range lines {
		io.WriteString(h, "\n"+line)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// cached returns the recorded artifacts when the fingerprint matches and
// every artifact still exists on disk.
func cached(statePath, fp string) ([]string, bool) {
	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Fingerprint != fp || len(entry.Artifacts) == 0 {
		return nil, false
	}
	for _, a := range entry.Artifacts {
		if _, err := os.Stat(a); err != nil {
			return nil, false
		}
	}
	return entry.Artifacts, true
}

func writeState(statePath string, entry cacheEntry) {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(statePath, append(data, '\n'), 0o644)
}
