// Package templates scaffolds new dynalint plugin packages from embedded
// trees. Each tree is a complete Go module: a main package exporting the
// Analyzers symbol the driver loads, an analyzer skeleton, an analysistest
// harness, and a README. File contents and a few file names are rendered
// through text/template with the case variants of the plugin name.
package templates

import "embed"

// TemplateFS holds every scaffold tree. The all: prefix keeps dotfiles such
// as .gitignore.tmpl in the embedding.
//
//go:embed all:simple all:standard all:advanced
var TemplateFS embed.FS
