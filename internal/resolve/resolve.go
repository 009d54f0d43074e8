// Package resolve maps requested plugin names to loadable artifacts.
//
// Resolution walks fixed precedence tiers per name: an ad-hoc source given
// on the command line, the configured library search path, the workspace
// metadata, and finally the name reinterpreted as a literal artifact path.
// The first tier with candidates wins; more than one candidate inside the
// winning tier is an ambiguity, never a silent pick.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dynalint/dynalint/internal/artifact"
	"github.com/dynalint/dynalint/internal/build"
	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/fetch"
	"github.com/dynalint/dynalint/internal/metadata"
	"github.com/dynalint/dynalint/internal/toolchain"
)

// Library is one resolved plugin artifact.
type Library struct {
	Name      string
	Toolchain toolchain.ID
	Path      string

	// Tier records which resolution tier produced the library, 1 through 4.
	Tier int
}

// Origin names the resolution tier that produced the library, for listings
// and verbose reports.
func (l Library) Origin() string {
	switch l.Tier {
	case 1:
		return "command line"
	case 2:
		return "search path"
	case 3:
		return "workspace"
	case 4:
		return "path"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of one resolve request, sorted by
// (name, toolchain, path) for stable output.
type Resolution struct {
	Libraries []Library
}

// Names returns the distinct resolved names, sorted.
func (r *Resolution) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, lib := range r.Libraries {
		if !seen[lib.Name] {
			seen[lib.Name] = true
			names = append(names, lib.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Group is the per-toolchain slice of a resolution handed to the driver.
type Group struct {
	Toolchain toolchain.ID
	Paths     []string
}

// ByToolchain splits the resolution into per-toolchain groups, sorted by
// toolchain, paths deduplicated and sorted within each group.
func (r *Resolution) ByToolchain() []Group {
	byTC := make(map[toolchain.ID]map[string]bool)
	for _, lib := range r.Libraries {
		if byTC[lib.Toolchain] == nil {
			byTC[lib.Toolchain] = make(map[string]bool)
		}
		byTC[lib.Toolchain][lib.Path] = true
	}

	groups := make([]Group, 0, len(byTC))
	for tc, paths := range byTC {
		group := Group{Toolchain: tc}
		for path := range paths {
			group.Paths = append(group.Paths, path)
		}
		sort.Strings(group.Paths)
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Toolchain < groups[j].Toolchain })
	return groups
}

// Request describes what one call wants resolved.
type Request struct {
	// Names are the logical names to resolve; ignored when All is set.
	Names []string

	// All resolves everything discoverable instead of specific names.
	All bool

	// AdHoc holds one-off sources from command-line flags, tried before
	// every other tier.
	AdHoc []metadata.Entry

	// NoBuild records package directories instead of compiling them.
	NoBuild bool

	// NoMetadata skips the workspace metadata tier.
	NoMetadata bool

	// PathsAllowed lets an unresolved name fall back to being a literal
	// artifact path.
	PathsAllowed bool

	// FailFast aborts on the first fetch or build failure instead of
	// collecting the batch.
	FailFast bool
}

// Context carries the request-scoped collaborators. A fresh Context per
// request keeps resolution free of ambient state.
type Context struct {
	Toolchain     toolchain.ID
	SearchPath    []string
	WorkspaceRoot string
	Fetcher       *fetch.Fetcher
	Builder       *build.Builder
}

// Resolve maps the request to artifacts. Fetch and build failures are
// collected across the batch and reported together with any unresolved
// names; configuration and ambiguity problems abort immediately.
func Resolve(ctx context.Context, rc *Context, req Request) (*Resolution, error) {
	if err := validateSearchPath(rc.SearchPath); err != nil {
		return nil, err
	}

	var batched []error

	adhoc, err := rc.adhocIndex(ctx, req, &batched)
	if err != nil {
		return nil, err
	}
	scanned, err := artifact.Scan(rc.SearchPath)
	if err != nil {
		return nil, err
	}

	if req.All {
		return rc.resolveAll(ctx, req, adhoc, scanned, &batched)
	}
	return rc.resolveNames(ctx, req, adhoc, scanned, &batched)
}

func (rc *Context) resolveNames(ctx context.Context, req Request, adhoc, scanned artifact.Index, batched *[]error) (*Resolution, error) {
	res := &Resolution{}
	seen := make(map[string]bool)

	var pending []string
	for _, name := range req.Names {
		if seen[name] {
			continue
		}
		seen[name] = true

		lib, found, err := pickCandidate(adhoc, 1, name, rc.Toolchain)
		if err != nil {
			return nil, err
		}
		if !found {
			lib, found, err = pickCandidate(scanned, 2, name, rc.Toolchain)
			if err != nil {
				return nil, err
			}
		}
		if found {
			res.Libraries = append(res.Libraries, lib)
			continue
		}
		pending = append(pending, name)
	}

	var declared artifact.Index
	if len(pending) > 0 && !req.NoMetadata {
		var err error
		declared, err = rc.metadataIndex(ctx, req, pending, batched)
		if err != nil {
			return nil, err
		}
	}

	var missing []string
	hints := make(map[string]string)
	failedBuilds := buildFailureNames(*batched)
	for _, name := range pending {
		lib, found, err := pickCandidate(declared, 3, name, rc.Toolchain)
		if err != nil {
			return nil, err
		}
		if !found && req.PathsAllowed {
			lib, found = libraryAtPath(name)
		}
		if found {
			res.Libraries = append(res.Libraries, lib)
			continue
		}
		// A name whose build already failed is reported as that failure,
		// not as missing on top of it.
		if failedBuilds[name] {
			continue
		}
		missing = append(missing, name)
		if hint := nearMiss([]artifact.Index{adhoc, scanned, declared}, name, rc.Toolchain); hint != "" {
			hints[name] = hint
		}
	}

	if len(missing) > 0 {
		*batched = append(*batched, &oerrors.NotFoundError{Names: missing, Hints: hints})
	}
	if len(*batched) > 0 {
		return nil, oerrors.Batch(*batched...)
	}

	sortLibraries(res.Libraries)
	return res, nil
}

func (rc *Context) resolveAll(ctx context.Context, req Request, adhoc, scanned artifact.Index, batched *[]error) (*Resolution, error) {
	union := artifact.NewIndex()
	tierOf := make(map[string]int)

	record := func(ix artifact.Index, tier int) {
		for _, name := range ix.Names() {
			for _, tc := range ix.Toolchains(name) {
				for _, path := range ix.Paths(name, tc) {
					union.Add(name, tc, path)
					if _, ok := tierOf[path]; !ok {
						tierOf[path] = tier
					}
				}
			}
		}
	}

	if adhoc != nil {
		record(adhoc, 1)
	}
	record(scanned, 2)
	if !req.NoMetadata {
		declared, err := rc.metadataIndex(ctx, req, nil, batched)
		if err != nil {
			return nil, err
		}
		record(declared, 3)
	}

	if len(*batched) > 0 {
		return nil, oerrors.Batch(*batched...)
	}

	res := &Resolution{}
	for _, name := range union.Names() {
		for _, tc := range union.Toolchains(name) {
			for _, path := range union.Paths(name, tc) {
				res.Libraries = append(res.Libraries, Library{
					Name:      name,
					Toolchain: tc,
					Path:      path,
					Tier:      tierOf[path],
				})
			}
		}
	}
	sortLibraries(res.Libraries)
	return res, nil
}

// adhocIndex materializes the tier 1 index from the command-line sources,
// nil when the call gave none.
func (rc *Context) adhocIndex(ctx context.Context, req Request, batched *[]error) (artifact.Index, error) {
	if len(req.AdHoc) == 0 {
		return nil, nil
	}
	for _, entry := range req.AdHoc {
		if err := entry.Validate("command line"); err != nil {
			return nil, err
		}
	}
	return rc.materialize(ctx, req.AdHoc, req, wantSet(req, req.Names), batched)
}

// metadataIndex materializes the tier 3 index from the workspace
// manifests. pending narrows lazy builds to the still-unresolved names.
func (rc *Context) metadataIndex(ctx context.Context, req Request, pending []string, batched *[]error) (artifact.Index, error) {
	entries, err := metadata.Load(rc.WorkspaceRoot)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return artifact.NewIndex(), nil
	}
	return rc.materialize(ctx, entries, req, wantSet(req, pending), batched)
}

// materialize runs fetch, lazy build, and artifact indexing for a set of
// metadata entries.
func (rc *Context) materialize(ctx context.Context, entries []metadata.Entry, req Request, want func(string) bool, batched *[]error) (artifact.Index, error) {
	sources, err := rc.Fetcher.Fetch(ctx, entries)
	if err != nil {
		if req.FailFast || !errors.Is(err, oerrors.ErrFetch) {
			return nil, err
		}
		*batched = append(*batched, err)
	}

	ix := artifact.NewIndex()
	for _, src := range sources {
		for _, pkg := range src.Packages {
			name := build.Name(pkg)
			if !want(name) {
				continue
			}
			if req.NoBuild {
				abs, err := filepath.Abs(pkg)
				if err != nil {
					return nil, fmt.Errorf("resolving package path: %w", err)
				}
				ix.Add(name, rc.Toolchain, abs)
				continue
			}
			artifacts, err := rc.Builder.Build(ctx, pkg, rc.Toolchain)
			if err != nil {
				if req.FailFast || !errors.Is(err, oerrors.ErrBuild) {
					return nil, err
				}
				*batched = append(*batched, err)
				continue
			}
			for _, a := range artifacts {
				if n, tc, ok := artifact.Decode(filepath.Base(a)); ok {
					ix.Add(n, tc, a)
				}
			}
		}
	}
	return ix, nil
}

func buildFailureNames(errs []error) map[string]bool {
	set := make(map[string]bool)
	for _, err := range errs {
		var buildErr *oerrors.BuildError
		if errors.As(err, &buildErr) {
			set[build.Name(buildErr.Package)] = true
		}
	}
	return set
}

func wantSet(req Request, names []string) func(string) bool {
	if req.All {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return func(name string) bool { return set[name] }
}

// pickCandidate returns the library for name in one tier's index. Exactly
// one candidate wins; several distinct paths are an ambiguity.
func pickCandidate(ix artifact.Index, tier int, name string, tc toolchain.ID) (Library, bool, error) {
	if ix == nil {
		return Library{}, false, nil
	}
	paths := ix.Paths(name, tc)
	switch len(paths) {
	case 0:
		return Library{}, false, nil
	case 1:
		return Library{Name: name, Toolchain: tc, Path: paths[0], Tier: tier}, true, nil
	default:
		return Library{}, false, &oerrors.AmbiguityError{Name: name, Candidates: paths}
	}
}

// libraryAtPath reinterprets an unresolved name as a literal artifact
// path. The basename must decode per the filename grammar; the encoded
// toolchain is taken as-is, since naming a file is explicit intent.
func libraryAtPath(name string) (Library, bool) {
	decoded, tc, ok := artifact.Decode(filepath.Base(name))
	if !ok {
		return Library{}, false
	}
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		return Library{}, false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return Library{}, false
	}
	return Library{Name: decoded, Toolchain: tc, Path: abs, Tier: 4}, true
}

// nearMiss explains a name that exists only for other toolchains.
func nearMiss(tiers []artifact.Index, name string, want toolchain.ID) string {
	for _, ix := range tiers {
		if ix == nil {
			continue
		}
		var others []string
		for _, tc := range ix.Toolchains(name) {
			if tc != want {
				others = append(others, tc.String())
			}
		}
		if len(others) > 0 {
			return "exists for " + strings.Join(others, ", ")
		}
	}
	return ""
}

func validateSearchPath(dirs []string) error {
	for _, dir := range dirs {
		if !filepath.IsAbs(dir) {
			return oerrors.NewConfigurationError(
				fmt.Sprintf("library search path entry %q is not absolute", dir),
				"", "library path",
				"list absolute directories in DYNALINT_LIBRARY_PATH and --lib-path",
			)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return oerrors.NewConfigurationError(
				fmt.Sprintf("library search path entry %q is not an existing directory", dir),
				"", "library path",
				"create the directory or drop it from the search path",
			)
		}
	}
	return nil
}

func sortLibraries(libs []Library) {
	sort.Slice(libs, func(i, j int) bool {
		if libs[i].Name != libs[j].Name {
			return libs[i].Name < libs[j].Name
		}
		if libs[i].Toolchain != libs[j].Toolchain {
			return libs[i].Toolchain < libs[j].Toolchain
		}
		return libs[i].Path < libs[j].Path
	})
}
