package version

import (
	"bytes"
	"os/exec"
	"regexp"
	"strings"
)

// goVersionRegex matches go version output like "go version go1.25.0 linux/amd64".
var goVersionRegex = regexp.MustCompile(`go\d+\.\d+(?:\.\d+)?(?:(?:rc|beta)\d+)?`)

// DetectGoBinary finds and checks the go binary installation.
func DetectGoBinary() GoBinaryInfo {
	path, err := exec.LookPath("go")
	if err != nil {
		return GoBinaryInfo{
			Found:      false,
			Compatible: false,
			Message:    "go binary not found in PATH",
		}
	}

	binVersion, err := getGoVersion(path)
	if err != nil {
		return GoBinaryInfo{
			Path:       path,
			Found:      true,
			Compatible: false,
			Message:    "failed to get go version: " + err.Error(),
		}
	}

	return GoBinaryInfo{
		Version:    binVersion,
		Path:       path,
		Found:      true,
		Compatible: GoVersionCompatible(MinGoVersion, binVersion),
		Message:    CompatibilityMessage(MinGoVersion, binVersion),
	}
}

// getGoVersion executes 'go version' and extracts the release string.
func getGoVersion(goPath string) (string, error) {
	cmd := exec.Command(goPath, "version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", err
	}

	return extractVersion(out.String())
}

// extractVersion extracts the release string from go version output.
//
// Output format:
//
//	go version go1.25.0 linux/amd64
func extractVersion(output string) (string, error) {
	line, _, _ := strings.Cut(output, "\n")
	match := goVersionRegex.FindString(line)
	if match == "" {
		return "", &versionParseError{output: output}
	}
	return match, nil
}

// versionParseError indicates failure to parse go version output.
type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse go version from output: " + e.output
}
