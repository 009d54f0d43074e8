package artifact

import (
	"sort"

	"github.com/dynalint/dynalint/internal/toolchain"
)

// Index maps logical names to the toolchains they were built for and the
// artifact paths discovered per toolchain. Candidates are preserved, never
// collapsed; ambiguity handling belongs to the resolver.
type Index map[string]map[toolchain.ID][]string

// NewIndex returns an empty index.
func NewIndex() Index {
	return make(Index)
}

// Add records an artifact path for a (name, toolchain) pair, ignoring exact
// duplicates.
func (ix Index) Add(name string, tc toolchain.ID, path string) {
	byToolchain, ok := ix[name]
	if !ok {
		byToolchain = make(map[toolchain.ID][]string)
		ix[name] = byToolchain
	}
	for _, existing := range byToolchain[tc] {
		if existing == path {
			return
		}
	}
	byToolchain[tc] = append(byToolchain[tc], path)
}

// Merge folds every entry of other into the index.
func (ix Index) Merge(other Index) {
	for name, byToolchain := range other {
		for tc, paths := range byToolchain {
			for _, path := range paths {
				ix.Add(name, tc, path)
			}
		}
	}
}

// Names returns all logical names, sorted.
func (ix Index) Names() []string {
	names := make([]string, 0, len(ix))
	for name := range ix {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Toolchains returns the toolchains a name was built for, sorted.
func (ix Index) Toolchains(name string) []toolchain.ID {
	byToolchain := ix[name]
	ids := make([]toolchain.ID, 0, len(byToolchain))
	for tc := range byToolchain {
		ids = append(ids, tc)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Paths returns a sorted copy of the candidate paths for (name, toolchain).
func (ix Index) Paths(name string, tc toolchain.ID) []string {
	paths := append([]string(nil), ix[name][tc]...)
	sort.Strings(paths)
	return paths
}

// Empty reports whether the index holds no artifacts.
func (ix Index) Empty() bool {
	return len(ix) == 0
}
