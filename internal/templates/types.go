package templates

// Template represents a plugin scaffold with its metadata.
type Template struct {
	// Name is the template identifier (simple, standard, advanced).
	Name string

	// Description explains the template's layout in one line.
	Description string

	// Default indicates if this is the template used when --template is omitted.
	Default bool

	// UseCase describes when to reach for this template.
	UseCase string
}

// TemplateData holds the values substituted into scaffold files. The case
// variants are all derived from Name; templates pick whichever fits the
// position (NameSnake for package and analyzer names, NamePascal for Go
// identifiers, NameKebab for repository names).
type TemplateData struct {
	// Name is the plugin name exactly as given.
	Name string

	// NameSnake is the lower_snake_case variant.
	NameSnake string

	// NamePascal is the PascalCase variant.
	NamePascal string

	// NameCamel is the camelCase variant.
	NameCamel string

	// NameKebab is the kebab-case variant.
	NameKebab string

	// ModulePath is the scaffolded module's path (from --module or derived).
	ModulePath string

	// GoVersion is the go directive value pinned into go.mod.
	GoVersion string

	// ToolsVersion is the golang.org/x/tools release required by go.mod.
	ToolsVersion string
}

// GenerateOptions configures plugin generation behavior.
type GenerateOptions struct {
	// TargetDir is the directory to scaffold the plugin in.
	TargetDir string

	// TemplateName is the template to use; empty means the default.
	TemplateName string

	// Name overrides the plugin name; empty means the base of TargetDir.
	Name string

	// ModulePath overrides the derived module path.
	ModulePath string

	// GoVersion overrides the go directive pinned into go.mod.
	GoVersion string

	// ToolsVersion overrides the golang.org/x/tools requirement.
	ToolsVersion string

	// Force allows overwriting files in non-empty directories.
	Force bool
}

// GenerateResult contains the result of plugin generation.
type GenerateResult struct {
	// Files is the list of files created, relative to TargetDir.
	Files []string

	// TemplateName is the template that was used.
	TemplateName string

	// TargetDir is the directory where files were created.
	TargetDir string
}
