package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// DefaultTemplateName is the built-in visit report template.
const DefaultTemplateName = "visit-report"

//go:embed templates/*.html
var templates embed.FS

// EmbeddedLoader loads templates from the embedded filesystem.
// Implements TemplateLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTemplate loads an HTML template from embedded assets by name.
// The name should not include the .html extension.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateTemplateName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return string(content), nil
}

// Names lists the embedded template names, sorted.
func (e *EmbeddedLoader) Names() []string {
	entries, err := fs.ReadDir(templates, "templates")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".html"))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ TemplateLoader = (*EmbeddedLoader)(nil)
