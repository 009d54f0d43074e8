// Package errors provides sentinel errors for the dynalint CLI.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrConfiguration indicates malformed workspace metadata or tool
	// configuration (unknown keys, invalid globs, bad search-path entries).
	ErrConfiguration = errors.New("configuration error")

	// ErrAmbiguity indicates a library name matched more than one artifact
	// within a single resolution tier.
	ErrAmbiguity = errors.New("ambiguous library")

	// ErrNotFound indicates one or more library names resolved to nothing.
	ErrNotFound = errors.New("library not found")

	// ErrFetch indicates a source could not be materialized after retries,
	// or a pattern escaped the workspace tree.
	ErrFetch = errors.New("fetch error")

	// ErrBuild indicates the go tool failed to compile a plugin package
	// or a driver binary.
	ErrBuild = errors.New("build error")

	// ErrInvocation indicates the driver subprocess failed to start.
	ErrInvocation = errors.New("driver invocation error")

	// ErrRuntimeFailure indicates the driver ran and exited nonzero with
	// findings or compile errors. Expected lint activity, not a defect.
	ErrRuntimeFailure = errors.New("driver reported failure")

	// ErrCrash indicates the driver terminated abnormally (signal). Always
	// surfaced distinctly from ErrRuntimeFailure.
	ErrCrash = errors.New("driver crashed")

	// ErrFixVerification indicates --fix applied changes that do not pass a
	// clean verification run.
	ErrFixVerification = errors.New("fix verification failed")
)

// DetailError captures structured error information for user-facing reports.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path and line number (optional).
	Location string

	// Field is the field name for metadata schema errors (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a configuration error with details.
func NewConfigurationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "invalid configuration",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrConfiguration,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
