package cmdutil

import (
	"errors"

	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/output"
)

// Flatten expands a batched error into its leaves, in order. Typed errors
// that unwrap to several targets stay whole; only deliberate batches split.
// A nil error flattens to nothing.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if batch, ok := err.(*oerrors.BatchError); ok {
		var leaves []error
		for _, e := range batch.Errs {
			leaves = append(leaves, Flatten(e)...)
		}
		return leaves
	}
	return []error{err}
}

// PrintResolveErrors reports a failed resolution, one leaf per line so
// batched failures stay diffable.
func PrintResolveErrors(err error) {
	for _, leaf := range Flatten(err) {
		printLeaf(leaf)
	}
}

// PrintRunError reports a failed driver run. Runtime failures already
// streamed the driver's findings to the command's own stdout and stderr,
// so only the other classes print here.
func PrintRunError(err error) {
	for _, leaf := range Flatten(err) {
		var runtimeErr *oerrors.RuntimeError
		if errors.As(leaf, &runtimeErr) {
			continue
		}
		printLeaf(leaf)
	}
}

// printLeaf prints one error. Build failures carry the captured go tool
// output; it prints beneath the summary line with its own layout intact.
func printLeaf(leaf error) {
	output.Error(leaf.Error())

	var buildErr *oerrors.BuildError
	if errors.As(leaf, &buildErr) && buildErr.Output != "" {
		output.Details(buildErr.Output)
	}
}
