// Package artifact encodes, decodes, and indexes compiled plugin artifacts.
//
// An artifact filename is PREFIX name "@" toolchain SUFFIX, where PREFIX and
// SUFFIX are the platform's dynamic-library affixes. The name is everything
// before the first "@".
package artifact

import (
	"runtime"
	"strings"

	"github.com/dynalint/dynalint/internal/toolchain"
)

// Separator divides the logical name from the toolchain identifier.
const Separator = "@"

type affixes struct {
	prefix string
	suffix string
}

var affixesByOS = map[string]affixes{
	"darwin":  {prefix: "lib", suffix: ".dylib"},
	"windows": {prefix: "", suffix: ".dll"},
}

// Everything else follows the ELF convention.
var defaultAffixes = affixes{prefix: "lib", suffix: ".so"}

func osAffixes(goos string) affixes {
	if a, ok := affixesByOS[goos]; ok {
		return a
	}
	return defaultAffixes
}

// Encode returns the canonical artifact filename for a logical name and
// toolchain on the host platform.
func Encode(name string, tc toolchain.ID) string {
	return EncodeFor(runtime.GOOS, name, tc)
}

// EncodeFor returns the canonical artifact filename using the affixes of the
// given GOOS.
func EncodeFor(goos, name string, tc toolchain.ID) string {
	a := osAffixes(goos)
	return a.prefix + name + Separator + tc.String() + a.suffix
}

// Decode parses an artifact basename back into its logical name and
// toolchain. ok is false for anything not matching the grammar; Decode is
// called against arbitrary directory listings and never fails loudly.
func Decode(basename string) (name string, tc toolchain.ID, ok bool) {
	return DecodeFor(runtime.GOOS, basename)
}

// DecodeFor parses an artifact basename using the affixes of the given GOOS.
func DecodeFor(goos, basename string) (string, toolchain.ID, bool) {
	a := osAffixes(goos)

	rest, found := strings.CutSuffix(basename, a.suffix)
	if !found {
		return "", "", false
	}
	rest, found = strings.CutPrefix(rest, a.prefix)
	if !found {
		return "", "", false
	}

	name, tcStr, found := strings.Cut(rest, Separator)
	if !found || name == "" || tcStr == "" {
		return "", "", false
	}
	if strings.ContainsAny(name, `/\`) {
		return "", "", false
	}

	return name, toolchain.ID(tcStr), true
}
