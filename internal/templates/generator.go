package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dynalint/dynalint/internal/output"
	"github.com/dynalint/dynalint/internal/version"
)

// Generator handles plugin generation from templates.
type Generator struct {
	opts GenerateOptions
}

// NewGenerator creates a new generator with the given options.
func NewGenerator(opts GenerateOptions) *Generator {
	return &Generator{opts: opts}
}

// Generate creates a new plugin package from a template.
func (g *Generator) Generate() (*GenerateResult, error) {
	templateName := g.opts.TemplateName
	if templateName == "" {
		templateName = DefaultTemplateName
	}
	tmpl, err := Get(templateName)
	if err != nil {
		return nil, err
	}

	name := g.opts.Name
	if name == "" {
		name = filepath.Base(g.opts.TargetDir)
	}
	if err := ValidateModuleName(name); err != nil {
		return nil, err
	}

	if err := g.checkTargetDir(); err != nil {
		return nil, err
	}

	data := NewTemplateData(name, g.opts.ModulePath)
	if g.opts.GoVersion != "" {
		data.GoVersion = g.opts.GoVersion
	}
	if g.opts.ToolsVersion != "" {
		data.ToolsVersion = g.opts.ToolsVersion
	}

	output.Debug("scaffolding plugin",
		"template", tmpl.Name,
		"name", data.NameSnake,
		"module", data.ModulePath,
		"target", g.opts.TargetDir)

	renderer := NewRenderer(data)
	files, err := renderer.RenderTemplate(tmpl.Name)
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	createdFiles := make([]string, 0, len(files))
	for _, f := range files {
		targetPath := filepath.Join(g.opts.TargetDir, filepath.FromSlash(f.TargetPath))

		parentDir := filepath.Dir(targetPath)
		if err := os.MkdirAll(parentDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", parentDir, err)
		}

		if !g.opts.Force {
			if _, err := os.Stat(targetPath); err == nil {
				return nil, fmt.Errorf("file %s already exists; use --force to overwrite", targetPath)
			}
		}

		if err := os.WriteFile(targetPath, f.Content, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", targetPath, err)
		}

		output.Debug("created file", "path", f.TargetPath)
		createdFiles = append(createdFiles, f.TargetPath)
	}

	return &GenerateResult{
		Files:        createdFiles,
		TemplateName: tmpl.Name,
		TargetDir:    g.opts.TargetDir,
	}, nil
}

// checkTargetDir validates the target directory.
func (g *Generator) checkTargetDir() error {
	info, err := os.Stat(g.opts.TargetDir)
	if os.IsNotExist(err) {
		// Directory doesn't exist, will be created
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking target directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", g.opts.TargetDir)
	}

	entries, err := os.ReadDir(g.opts.TargetDir)
	if err != nil {
		return fmt.Errorf("reading target directory: %w", err)
	}

	if len(entries) > 0 && !g.opts.Force {
		return fmt.Errorf("directory %s is not empty; use --force to overwrite existing files", g.opts.TargetDir)
	}

	return nil
}

// NewTemplateData derives every case variant of name that the scaffold
// files substitute. An empty modulePath falls back to DeriveModulePath.
func NewTemplateData(name, modulePath string) TemplateData {
	if modulePath == "" {
		modulePath = DeriveModulePath(name)
	}
	return TemplateData{
		Name:         name,
		NameSnake:    snakeCase(name),
		NamePascal:   pascalCase(name),
		NameCamel:    camelCase(name),
		NameKebab:    kebabCase(name),
		ModulePath:   modulePath,
		GoVersion:    version.HostGoVersion(),
		ToolsVersion: version.ToolsVersion,
	}
}
