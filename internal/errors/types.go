package errors

import (
	"fmt"
	"sort"
	"strings"
)

// AmbiguityError reports a library name matching more than one artifact
// within the same resolution tier. Candidates are sorted for stable output.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

// Error implements the error interface.
func (e *AmbiguityError) Error() string {
	candidates := append([]string(nil), e.Candidates...)
	sort.Strings(candidates)
	return fmt.Sprintf("found multiple libraries matching `%s`:\n  %s",
		e.Name, strings.Join(candidates, "\n  "))
}

// Unwrap returns the ambiguity sentinel.
func (e *AmbiguityError) Unwrap() error {
	return ErrAmbiguity
}

// NotFoundError reports every library name in a request that resolved to no
// artifact. Names are deduplicated and sorted so batched output is diffable.
type NotFoundError struct {
	Names []string

	// Hints maps a name to a short explanation of a near miss, such as an
	// artifact that exists only for a different toolchain.
	Hints map[string]string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	names := dedupeSorted(e.Names)

	var b strings.Builder
	b.WriteString("unable to find the following libraries:")
	for _, name := range names {
		b.WriteString("\n  ")
		b.WriteString(name)
		if hint, ok := e.Hints[name]; ok && hint != "" {
			b.WriteString(" (")
			b.WriteString(hint)
			b.WriteString(")")
		}
	}
	return b.String()
}

// Unwrap returns the not-found sentinel.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// FetchError names the metadata entry whose source could not be materialized.
type FetchError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching `%s`: %v", e.Source, e.Err)
}

// Unwrap exposes both the fetch sentinel and the underlying error.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}

// FetchErrors collects per-entry fetch failures across one request. Sibling
// entries keep fetching; the batch is reported together.
type FetchErrors struct {
	Errs []*FetchError
}

// Error implements the error interface.
func (e *FetchErrors) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, fe := range e.Errs {
		msgs = append(msgs, fe.Error())
	}
	msgs = dedupeSorted(msgs)
	return strings.Join(msgs, "\n")
}

// Unwrap returns the fetch sentinel.
func (e *FetchErrors) Unwrap() error {
	return ErrFetch
}

// BuildError names the package that failed to compile. Output carries the
// go tool's captured stderr; Error returns only the summary line, and the
// command layer prints Output separately with its layout intact.
type BuildError struct {
	Package string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("building `%s`: %v", e.Package, e.Err)
}

// Unwrap exposes both the build sentinel and the underlying error.
func (e *BuildError) Unwrap() []error {
	return []error{ErrBuild, e.Err}
}

// CrashError reports abnormal driver termination.
type CrashError struct {
	Signal string
}

// Error implements the error interface.
func (e *CrashError) Error() string {
	return fmt.Sprintf("driver terminated abnormally: %s", e.Signal)
}

// Unwrap returns the crash sentinel.
func (e *CrashError) Unwrap() error {
	return ErrCrash
}

// BatchError aggregates independent failures collected across one request
// so they report together instead of one at a time. Unlike errors.Join it
// is a distinct type, so printing code can tell a deliberate batch apart
// from a typed error that happens to unwrap to several targets.
type BatchError struct {
	Errs []error
}

// Batch collects non-nil errors into a BatchError. It returns nil when
// every error is nil and the error itself when only one remains.
func Batch(errs ...error) error {
	kept := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &BatchError{Errs: kept}
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the batched errors to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	return e.Errs
}

// RuntimeError carries the driver's own exit code so callers can propagate it
// unchanged.
type RuntimeError struct {
	ExitCode int
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("driver exited with code %d", e.ExitCode)
}

// Unwrap returns the runtime-failure sentinel.
func (e *RuntimeError) Unwrap() error {
	return ErrRuntimeFailure
}

func dedupeSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
