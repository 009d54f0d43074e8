// Package driver implements the dynalint driver runtime.
//
// The driver is a separate binary, built once per toolchain, that loads the
// plugin artifacts the CLI resolved and runs their analyzers through the
// multichecker. A plugin is a package built with -buildmode=plugin that
// exports
//
//	func Analyzers() []*analysis.Analyzer
//
// The CLI hands the driver its artifact list through the DYNALINT_LIBS
// environment variable; everything on the command line is multichecker
// territory (-json, -fix, analyzer flags, package patterns). Exit codes
// follow the multichecker convention: 0 clean, 3 findings.
package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"plugin"
	"sort"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
)

// Environment contract between the dynalint CLI and the driver.
const (
	// EnvLibraries carries a JSON array of artifact paths to load.
	EnvLibraries = "DYNALINT_LIBS"

	// EnvList makes the driver print its loaded analyzers and exit
	// instead of running them.
	EnvList = "DYNALINT_LIST"
)

// AnalyzersSymbol is the exported symbol every plugin must provide.
const AnalyzersSymbol = "Analyzers"

// Main is the driver entry point.
func Main() {
	paths, err := libraryPaths(os.Getenv(EnvLibraries))
	if err != nil {
		fatal(err)
	}
	analyzers, err := Load(paths)
	if err != nil {
		fatal(err)
	}

	if v := os.Getenv(EnvList); v != "" && v != "0" {
		list(os.Stdout, analyzers)
		return
	}
	multichecker.Main(analyzers...)
}

// Load opens every artifact and collects the analyzers they export. Two
// plugins providing an analyzer with the same name is an error; the
// multichecker would reject the duplicate anyway, with a worse message.
func Load(paths []string) ([]*analysis.Analyzer, error) {
	var analyzers []*analysis.Analyzer
	providedBy := make(map[string]string)

	for _, path := range paths {
		plug, err := plugin.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening plugin %s: %w", path, err)
		}
		sym, err := plug.Lookup(AnalyzersSymbol)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", path, err)
		}
		provider, ok := sym.(func() []*analysis.Analyzer)
		if !ok {
			return nil, fmt.Errorf("plugin %s: %s has type %T, want func() []*analysis.Analyzer",
				path, AnalyzersSymbol, sym)
		}

		loaded := provider()
		if err := noteProviders(providedBy, loaded, path); err != nil {
			return nil, err
		}
		analyzers = append(analyzers, loaded...)
	}
	return analyzers, nil
}

func noteProviders(providedBy map[string]string, analyzers []*analysis.Analyzer, path string) error {
	for _, a := range analyzers {
		if prev, ok := providedBy[a.Name]; ok {
			return fmt.Errorf("analyzer %q provided by both %s and %s", a.Name, prev, path)
		}
		providedBy[a.Name] = path
	}
	return nil
}

func libraryPaths(raw string) ([]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("%s is not set; run the driver through the dynalint CLI", EnvLibraries)
	}
	var paths []string
	if err := json.Unmarshal([]byte(raw), &paths); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EnvLibraries, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s names no artifacts", EnvLibraries)
	}
	return paths, nil
}

// list prints one analyzer per line: name, a tab, and the first line of its
// doc string.
func list(w io.Writer, analyzers []*analysis.Analyzer) {
	sorted := append([]*analysis.Analyzer(nil), analyzers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, a := range sorted {
		doc := a.Doc
		if i := strings.IndexByte(doc, '\n'); i >= 0 {
			doc = doc[:i]
		}
		fmt.Fprintf(w, "%s\t%s\n", a.Name, doc)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "dynalint-driver:", err)
	os.Exit(1)
}
