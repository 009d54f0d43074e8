package errors

import "errors"

// Process exit codes. ExitFindings is never produced by the mapping below;
// it is the driver's own findings exit, propagated unchanged through
// RuntimeError.
const (
	ExitOK            = 0
	ExitGeneral       = 1
	ExitConfiguration = 2
	ExitFindings      = 3
	ExitNotFound      = 4
	ExitAmbiguity     = 5
	ExitFetch         = 6
	ExitBuild         = 7
	ExitInvocation    = 8
	ExitCrash         = 9
)

// ExitCode maps an error to the process exit code. Batched errors take the
// code of the most specific class present, configuration problems first. A
// crash outranks the findings passthrough so abnormal termination is never
// reported as lint activity.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// A failed fix verification stays general even though it wraps the
	// verification run's own failure.
	if errors.Is(err, ErrFixVerification) {
		return ExitGeneral
	}
	if errors.Is(err, ErrCrash) {
		return ExitCrash
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return runtimeErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrAmbiguity):
		return ExitAmbiguity
	case errors.Is(err, ErrFetch):
		return ExitFetch
	case errors.Is(err, ErrBuild):
		return ExitBuild
	case errors.Is(err, ErrInvocation):
		return ExitInvocation
	}
	return ExitGeneral
}

// ExitError wraps an error with the process exit code it should produce.
type ExitError struct {
	Err  error
	Code int

	// Printed marks that the command layer already reported the error, so
	// main should only set the exit code.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}
