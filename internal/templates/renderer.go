package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

// Renderer substitutes one plugin's template data into template content.
type Renderer struct {
	data TemplateData
}

// NewRenderer creates a renderer for the given template data.
func NewRenderer(data TemplateData) *Renderer {
	return &Renderer{data: data}
}

// RenderString renders a single template string.
func (r *Renderer) RenderString(content string) (string, error) {
	rendered, err := r.render("string", []byte(content))
	if err != nil {
		return "", err
	}
	return string(rendered), nil
}

func (r *Renderer) render(name string, content []byte) ([]byte, error) {
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateFile is one rendered output file.
type TemplateFile struct {
	// SourcePath is the path within the embedded filesystem.
	SourcePath string

	// TargetPath is the output path, with the .tmpl suffix removed and
	// placeholder names replaced with the plugin's.
	TargetPath string

	// Content is the rendered content.
	Content []byte
}

// RenderTemplate renders every file of the named template tree.
func (r *Renderer) RenderTemplate(templateName string) ([]TemplateFile, error) {
	paths, err := templatePaths(templateName)
	if err != nil {
		return nil, err
	}

	files := make([]TemplateFile, 0, len(paths))
	for _, path := range paths {
		content, err := fs.ReadFile(TemplateFS, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rendered, err := r.render(path, content)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", path, err)
		}
		files = append(files, TemplateFile{
			SourcePath: path,
			TargetPath: r.renameTarget(templateRelPath(templateName, path)),
			Content:    rendered,
		})
	}
	return files, nil
}

// templatePaths walks the named template tree and returns its .tmpl files.
func templatePaths(templateName string) ([]string, error) {
	var paths []string
	err := fs.WalkDir(TemplateFS, templateName, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".tmpl") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking template %s: %w", templateName, err)
	}
	return paths, nil
}

// templateRelPath strips the template directory prefix and the .tmpl suffix.
func templateRelPath(templateName, path string) string {
	rel := strings.TrimPrefix(path, templateName+"/")
	return strings.TrimSuffix(rel, ".tmpl")
}

// renameTarget maps the placeholder analyzer file and directory names onto
// the plugin's snake_case name, so the analyzer source ends up named after
// the analyzer it holds. Substitution inside files is the template engine's
// job; this covers the file names themselves.
func (r *Renderer) renameTarget(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		switch part {
		case "analyzer":
			parts[i] = r.data.NameSnake
		case "analyzer.go":
			parts[i] = r.data.NameSnake + ".go"
		case "analyzer_test.go":
			parts[i] = r.data.NameSnake + "_test.go"
		}
	}
	return strings.Join(parts, "/")
}
