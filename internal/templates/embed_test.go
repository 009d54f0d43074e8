package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("names", func(t *testing.T) {
		names := Names()
		assert.Equal(t, []string{"simple", "standard", "advanced"}, names)
	})

	t.Run("get known", func(t *testing.T) {
		tmpl, err := Get("simple")
		require.NoError(t, err)
		assert.Equal(t, "simple", tmpl.Name)
		assert.NotEmpty(t, tmpl.Description)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := Get("fancy")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown template "fancy"`)
		assert.Contains(t, err.Error(), "simple, standard, advanced")
	})

	t.Run("default is standard", func(t *testing.T) {
		def, err := Get(DefaultTemplateName)
		require.NoError(t, err)
		assert.Equal(t, "standard", def.Name)
		assert.True(t, def.Default, "DefaultTemplateName must point at the flagged default")
	})

	t.Run("list covers every name", func(t *testing.T) {
		list := List()
		require.Len(t, list, 3)
		defaults := 0
		for _, tmpl := range list {
			if tmpl.Default {
				defaults++
			}
		}
		assert.Equal(t, 1, defaults)
	})
}

func TestTemplateFileSets(t *testing.T) {
	renderer := NewRenderer(NewTemplateData("my_lints", ""))

	tests := []struct {
		template  string
		wantFiles []string
	}{
		{
			template: "simple",
			wantFiles: []string{
				"go.mod",
				"main.go",
				"main_test.go",
				"testdata/src/a/a.go",
				"README.md",
				".gitignore",
			},
		},
		{
			template: "standard",
			wantFiles: []string{
				"go.mod",
				"plugin.go",
				"my_lints.go",
				"my_lints_test.go",
				"testdata/src/a/a.go",
				"README.md",
				".gitignore",
			},
		},
		{
			template: "advanced",
			wantFiles: []string{
				"go.mod",
				"plugin.go",
				"my_lints/my_lints.go",
				"my_lints/my_lints_test.go",
				"my_lints/testdata/src/a/a.go",
				"README.md",
				".gitignore",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			files, err := renderer.RenderTemplate(tt.template)
			require.NoError(t, err)

			targets := make([]string, 0, len(files))
			for _, f := range files {
				targets = append(targets, f.TargetPath)
				assert.False(t, strings.HasSuffix(f.TargetPath, ".tmpl"),
					"target should not keep the .tmpl suffix: %s", f.TargetPath)
			}
			assert.ElementsMatch(t, tt.wantFiles, targets)
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	data := NewTemplateData("my_lints", "")
	renderer := NewRenderer(data)

	t.Run("standard renames the analyzer files", func(t *testing.T) {
		files, err := renderer.RenderTemplate("standard")
		require.NoError(t, err)

		targets := make(map[string]string, len(files))
		for _, f := range files {
			targets[f.TargetPath] = string(f.Content)
		}

		assert.Contains(t, targets, "my_lints.go")
		assert.Contains(t, targets, "my_lints_test.go")
		assert.NotContains(t, targets, "analyzer.go")

		assert.Contains(t, targets["go.mod"], "module example.com/my_lints")
		assert.Contains(t, targets["go.mod"], "require golang.org/x/tools")
		assert.Contains(t, targets["plugin.go"], "MyLints")
		assert.Contains(t, targets["my_lints.go"], `Name:     "my_lints"`)
		assert.Contains(t, targets["my_lints_test.go"], "func TestMyLints(")
	})

	t.Run("advanced renames the analyzer package", func(t *testing.T) {
		files, err := renderer.RenderTemplate("advanced")
		require.NoError(t, err)

		targets := make(map[string]string, len(files))
		for _, f := range files {
			targets[f.TargetPath] = string(f.Content)
		}

		assert.Contains(t, targets, "my_lints/my_lints.go")
		assert.Contains(t, targets, "my_lints/my_lints_test.go")
		assert.Contains(t, targets, "my_lints/testdata/src/a/a.go")

		assert.Contains(t, targets["my_lints/my_lints.go"], "package my_lints")
		assert.Contains(t, targets["plugin.go"], `myLints "example.com/my_lints/my_lints"`)
		assert.Contains(t, targets["plugin.go"], "myLints.Analyzer")
	})

	t.Run("every tree exports the driver symbol", func(t *testing.T) {
		for _, name := range Names() {
			files, err := renderer.RenderTemplate(name)
			require.NoError(t, err, "template %s", name)

			var exported bool
			for _, f := range files {
				content := string(f.Content)
				assert.NotContains(t, content, "{{", "%s/%s has an unrendered directive", name, f.TargetPath)
				if strings.Contains(content, "func Analyzers() []*analysis.Analyzer") {
					exported = true
				}
			}
			assert.True(t, exported, "template %s never exports Analyzers", name)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := renderer.RenderTemplate("invalid")
		assert.Error(t, err)
	})
}

func TestRenderString(t *testing.T) {
	renderer := NewRenderer(NewTemplateData("shadow-check", ""))

	got, err := renderer.RenderString("{{.NameSnake}} {{.NamePascal}} {{.NameCamel}} {{.NameKebab}}")
	require.NoError(t, err)
	assert.Equal(t, "shadow_check ShadowCheck shadowCheck shadow-check", got)

	_, err = renderer.RenderString("{{.Missing}")
	assert.Error(t, err)
}
