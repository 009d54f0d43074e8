// Package gotool wraps calls to the external go binary.
package gotool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dynalint/dynalint/internal/toolchain"
)

// ErrGoNotFound is returned when the go binary is not found.
var ErrGoNotFound = errors.New("go binary not found")

// Binary wraps calls to the external go binary.
type Binary struct {
	// Path is the path to the go binary. If empty, "go" is used from PATH.
	Path string

	// Env is the base environment. If nil, os.Environ() is used.
	Env []string
}

// NewBinary creates a new Binary wrapper using "go" from PATH.
func NewBinary() *Binary {
	return &Binary{Path: "go"}
}

// Check verifies the go binary can be found.
func (b *Binary) Check() error {
	if _, err := exec.LookPath(b.path()); err != nil {
		return ErrGoNotFound
	}
	return nil
}

// BuildPlugin compiles the package in dir as a Go plugin for the given
// toolchain, writing the shared object to out. Plugin mode requires cgo.
func (b *Binary) BuildPlugin(ctx context.Context, dir, out string, tc toolchain.ID) ([]byte, error) {
	env := Set(Environ(b.env(), tc), "CGO_ENABLED", "1")
	return b.runCapture(ctx, dir, env, "build", "-buildmode=plugin", "-trimpath", "-o", out, ".")
}

// Build compiles the package in dir to a regular binary at out.
func (b *Binary) Build(ctx context.Context, dir, out string, tc toolchain.ID) ([]byte, error) {
	return b.runCapture(ctx, dir, Environ(b.env(), tc), "build", "-o", out, ".")
}

// ModTidy resolves and records the module requirements of dir.
func (b *Binary) ModTidy(ctx context.Context, dir string, tc toolchain.ID) ([]byte, error) {
	return b.runCapture(ctx, dir, Environ(b.env(), tc), "mod", "tidy")
}

// Version reports the go binary's version line.
func (b *Binary) Version(ctx context.Context) (string, error) {
	out, err := b.runCapture(ctx, "", b.env(), "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// runCapture executes a go command and captures its combined output.
func (b *Binary) runCapture(ctx context.Context, dir string, env []string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, b.path(), args...)
	cmd.Dir = dir
	cmd.Env = env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return out.Bytes(), fmt.Errorf("go %s failed with exit code %d",
				strings.Join(args, " "), exitErr.ExitCode())
		}
		return out.Bytes(), fmt.Errorf("go %s: %w", strings.Join(args, " "), err)
	}

	return out.Bytes(), nil
}

func (b *Binary) path() string {
	if b.Path != "" {
		return b.Path
	}
	return "go"
}

func (b *Binary) env() []string {
	if b.Env != nil {
		return b.Env
	}
	return os.Environ()
}

// Environ returns base with GOROOT removed and GOTOOLCHAIN pinned to the
// toolchain's channel. A GOROOT leaked from a different toolchain poisons
// pinned builds. An empty toolchain leaves GOTOOLCHAIN untouched.
func Environ(base []string, tc toolchain.ID) []string {
	env := Unset(base, "GOROOT")
	if tc != "" {
		env = Set(env, "GOTOOLCHAIN", tc.Channel())
	}
	return env
}

// Set returns env with key set to value, replacing any existing entry.
func Set(env []string, key, value string) []string {
	return append(Unset(env, key), key+"="+value)
}

// Unset returns env without any entry for key.
func Unset(env []string, key string) []string {
	prefix := key + "="
	out := make([]string, 0, len(env))
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return out
}

// Get returns the value of key in env. The last entry wins, matching how
// the OS resolves duplicates.
func Get(env []string, key string) (string, bool) {
	prefix := key + "="
	for i := len(env) - 1; i >= 0; i-- {
		if strings.HasPrefix(env[i], prefix) {
			return env[i][len(prefix):], true
		}
	}
	return "", false
}
