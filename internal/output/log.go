// Package output provides terminal output for the dynalint CLI: the global
// structured logger, lipgloss styles, aligned listings, and progress spinners.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger is the package-level logger. SetupLogging replaces it; the default
// is info level without timestamps so early startup messages stay clean.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	ReportCaller:    false,
})

// LogConfig controls the global logger.
type LogConfig struct {
	// Verbose enables debug level plus timestamps and caller reporting.
	Verbose bool
	// Quiet raises the level to error so only failures are reported.
	// Verbose wins when both are set.
	Quiet bool
}

// SetupLogging configures the global logger from the root command flags.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	switch {
	case cfg.Verbose:
		level = log.DebugLevel
	case cfg.Quiet:
		level = log.ErrorLevel
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: cfg.Verbose,
		ReportCaller:    cfg.Verbose,
	})
}

// SetLogWriter redirects the global logger, so tests can capture output.
func SetLogWriter(w io.Writer) {
	logger.SetOutput(w)
}

// ToolchainLogger returns a logger prefixed with a toolchain identifier, for
// interleaved per-toolchain progress during multi-toolchain runs.
func ToolchainLogger(toolchain string) *log.Logger {
	return logger.WithPrefix(toolchain)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Print prints a message to stdout without any formatting.
func Print(msg string) {
	os.Stdout.WriteString(msg)
}

// Println prints a message to stdout with a newline.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}

// Details prints preformatted multi-line text to stderr, bypassing the
// structured logger so tool output keeps its own layout.
func Details(text string) {
	fmt.Fprintln(os.Stderr, text)
}
