package templates

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateModuleName checks if a plugin name is usable as a scaffold name.
// Names follow the logical-name rules (single path element, no @, /, or \)
// and must additionally survive conversion to a Go package name, so the
// snake_case variant may not collide with a Go keyword.
func ValidateModuleName(name string) error {
	if name == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return fmt.Errorf("invalid plugin name %q: contains invalid character %q", name, r)
		}
	}

	if !unicode.IsLetter(rune(name[0])) {
		return fmt.Errorf("invalid plugin name %q: must start with a letter", name)
	}

	if snake := snakeCase(name); goKeywords[snake] {
		return fmt.Errorf("invalid plugin name %q: %q is a Go keyword and cannot name the analyzer package", name, snake)
	}

	return nil
}

// DeriveModulePath derives a module path from a plugin name.
// Format: example.com/<name> in snake_case, ready to be replaced with the
// real repository path once one exists.
func DeriveModulePath(name string) string {
	return fmt.Sprintf("example.com/%s", snakeCase(name))
}

// splitWords breaks a name into its words: explicit separators first, then
// case boundaries, so my-lints, my_lints, myLints, and MyLints all come out
// as [my lints]. Runs of capitals stay together until the run ends
// (HTTPHeader is [http header]).
func splitWords(name string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == '.' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			if i > 0 && !unicode.IsUpper(runes[i-1]) {
				flush()
			} else if i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1]) {
				flush()
			}
			current = append(current, unicode.ToLower(r))
		default:
			current = append(current, r)
		}
	}
	flush()

	if len(words) == 0 {
		return []string{"plugin"}
	}
	return words
}

func snakeCase(name string) string {
	return strings.Join(splitWords(name), "_")
}

func kebabCase(name string) string {
	return strings.Join(splitWords(name), "-")
}

func pascalCase(name string) string {
	words := splitWords(name)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func camelCase(name string) string {
	words := splitWords(name)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(word)
	return string(unicode.ToUpper(runes[0])) + string(runes[1:])
}

// goKeywords is the set of names the scaffolded analyzer package cannot take.
var goKeywords = map[string]bool{
	"break":       true,
	"case":        true,
	"chan":        true,
	"const":       true,
	"continue":    true,
	"default":     true,
	"defer":       true,
	"else":        true,
	"fallthrough": true,
	"for":         true,
	"func":        true,
	"go":          true,
	"goto":        true,
	"if":          true,
	"import":      true,
	"interface":   true,
	"map":         true,
	"package":     true,
	"range":       true,
	"return":      true,
	"select":      true,
	"struct":      true,
	"switch":      true,
	"type":        true,
	"var":         true,
}
