// Package testutil provides shared fixtures for dynalint tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/dynalint/dynalint/internal/gotool"
)

// GoScriptOK mimics a successful go invocation: it appends its arguments to
// $FAKE_GO_LOG and writes a placeholder artifact wherever -o points.
const GoScriptOK = `#!/bin/sh
[ -n "$FAKE_GO_LOG" ] && echo "$@" >> "$FAKE_GO_LOG"
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
[ -n "$out" ] && echo fake > "$out"
exit 0
`

// GoScriptFail mimics a failed compile.
const GoScriptFail = `#!/bin/sh
echo "plugin.go:4:2: undefined: doesNotExist"
exit 1
`

// FakeGo writes script as a stand-in go binary and returns it wrapped in a
// gotool.Binary, together with the path of its invocation log. Skips the
// test on platforms without a POSIX shell.
func FakeGo(t *testing.T, script string) (*gotool.Binary, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake go binary needs a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "go")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake go script: %v", err)
	}

	logPath := filepath.Join(dir, "invocations.log")
	bin := &gotool.Binary{
		Path: path,
		Env:  []string{"PATH=/usr/bin:/bin", "FAKE_GO_LOG=" + logPath},
	}
	return bin, logPath
}

// GoInvocations returns the fake go binary's logged command lines, one per
// invocation, nil when it never ran.
func GoInvocations(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// PluginPackage writes a minimal plugin package under parent and returns
// its directory. The directory basename is the plugin's logical name.
func PluginPackage(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create package dir %s: %v", dir, err)
	}
	WriteFile(t, dir, "go.mod", "module example.com/"+name+"\n\ngo 1.25.0\n")
	WriteFile(t, dir, "main.go", "package main\n")
	return dir
}

// WriteFile creates a file with the given content below dir, creating
// parent directories as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}
