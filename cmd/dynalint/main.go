// Package main is the entry point for the dynalint CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dynalint/dynalint/internal/cmd"
	oerrors "github.com/dynalint/dynalint/internal/errors"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *oerrors.ExitError
		if errors.As(err, &exitErr) {
			// The command layer marks errors it already reported.
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(oerrors.ExitCode(err))
	}
}
