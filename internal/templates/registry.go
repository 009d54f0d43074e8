package templates

import (
	"fmt"
	"strings"
)

// DefaultTemplateName is the template used when --template is not specified.
const DefaultTemplateName = "standard"

// registry holds the available scaffolds in presentation order.
var registry = []Template{
	{
		Name:        "simple",
		Description: "Single file - analyzer, symbol, and test in main.go",
		UseCase:     "Trying out an analyzer idea, one-off project lints",
	},
	{
		Name:        "standard",
		Description: "Separated files - analyzer split from the plugin symbol",
		UseCase:     "Most plugins; room for a second analyzer later",
		Default:     true,
	},
	{
		Name:        "advanced",
		Description: "Multi-package - one package per analyzer under the root",
		UseCase:     "Lint collections maintained by a team",
	},
}

// Get returns a template by name.
func Get(name string) (Template, error) {
	for _, t := range registry {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("unknown template %q; valid templates: %s",
		name, strings.Join(Names(), ", "))
}

// List returns all available templates in presentation order.
func List() []Template {
	return append([]Template(nil), registry...)
}

// Names returns all template names in presentation order.
func Names() []string {
	names := make([]string, len(registry))
	for i, t := range registry {
		names[i] = t.Name
	}
	return names
}
