// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/dynalint/dynalint/internal/errors"
	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/templates"
)

// NewNewCmd creates the new command.
func NewNewCmd() *cobra.Command {
	var (
		dirFlag      string
		templateFlag string
		moduleFlag   string
		forceFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Scaffold an analyzer plugin package",
		Long: `Scaffold a new analyzer plugin package.

The package compiles into a shared library that dynalint can build and
run; it comes with a working analyzer, its plugin symbol, and a test
against the analysistest harness.

Templates:
` + templateHelp() + `
Examples:
  # Scaffold into ./deadcode with the standard layout
  dynalint new deadcode

  # Scaffold a single-file plugin into a specific directory
  dynalint new deadcode --template simple --dir ./lints/deadcode

  # Scaffold with an explicit module path
  dynalint new deadcode --module github.com/acme/deadcode`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(args[0], dirFlag, templateFlag, moduleFlag, forceFlag)
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to scaffold into (defaults to the plugin name)")
	cmd.Flags().StringVarP(&templateFlag, "template", "t", templates.DefaultTemplateName,
		"Template to use: "+strings.Join(templates.Names(), ", "))
	cmd.Flags().StringVar(&moduleFlag, "module", "", "Module path for the scaffolded go.mod")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing files")

	return cmd
}

// templateHelp renders the template table of the long help from the registry,
// so the help cannot drift from the templates that actually exist.
func templateHelp() string {
	var b strings.Builder
	for _, t := range templates.List() {
		desc := t.Description
		if t.Default {
			desc += " (default)"
		}
		fmt.Fprintf(&b, "  %-12s%s\n", t.Name, desc)
		fmt.Fprintf(&b, "  %-12sFor: %s\n", "", t.UseCase)
	}
	return b.String()
}

func runNew(name, dir, templateName, modulePath string, force bool) error {
	targetDir := dir
	if targetDir == "" {
		targetDir = name
	}

	result, err := templates.NewGenerator(templates.GenerateOptions{
		TargetDir:    targetDir,
		TemplateName: templateName,
		Name:         name,
		ModulePath:   modulePath,
		Force:        force,
	}).Generate()
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfiguration, Err: err}
	}

	files := make(map[string]string, len(result.Files))
	for _, f := range result.Files {
		files[f] = fileDescription(f)
	}

	output.Println(fmt.Sprintf("Created %s plugin in %s", result.TemplateName, result.TargetDir))
	output.Println("")
	output.Print(output.RenderFileTree(filepath.Base(result.TargetDir), files))
	output.Println("")
	output.Println("Next:")
	output.Println("  cd " + result.TargetDir)
	output.Println("  go mod tidy")
	output.Println("  go test ./...")
	output.Println("")
	output.Println("Run it with: dynalint check --path " + result.TargetDir)

	return nil
}

// fileDescription annotates scaffolded files in the created-files tree.
func fileDescription(path string) string {
	base := filepath.Base(path)
	switch {
	case base == "go.mod":
		return "Module definition"
	case base == "README.md":
		return "Plugin documentation"
	case strings.Contains(filepath.ToSlash(path), "testdata/"):
		return "Test fixture"
	case strings.HasSuffix(base, "_test.go"):
		return "Analyzer test"
	case base == "main.go":
		return "Analyzer and plugin symbol"
	case base == "plugin.go":
		return "Plugin symbol"
	case strings.HasSuffix(base, ".go"):
		return "Analyzer implementation"
	default:
		return ""
	}
}
