package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner run.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title string
}

// WithTitle sets the text shown next to the spinner.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// RunWithSpinner runs action behind a terminal spinner and returns its
// error. Without a TTY the action runs directly, so piped and scripted
// invocations see no control sequences.
func RunWithSpinner(ctx context.Context, action func() error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working..."}
	for _, opt := range opts {
		opt(cfg)
	}

	if !IsTTY() {
		return action()
	}

	// The action's result lands in actionErr before done is closed, so both
	// the spinner and the final select can wait on done without racing over
	// a single channel value.
	var actionErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		actionErr = action()
	}()

	err := spinner.New().Title(cfg.title).Action(func() {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}).Run()
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}

	select {
	case <-done:
		return actionErr
	case <-ctx.Done():
		return ctx.Err()
	}
}
