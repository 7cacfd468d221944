package assets

import (
	"errors"
	"strings"

	"github.com/alnah/go-visit2pdf/internal/fileutil"
)

// TemplateResolver resolves a template reference to its content.
// When a custom loader is configured, named templates are looked up there
// first, falling back to embedded templates if not found.
type TemplateResolver struct {
	custom   TemplateLoader // nil if no template directory configured
	embedded TemplateLoader
}

// NewTemplateResolver creates a TemplateResolver.
// If templateDir is empty, only embedded templates serve named lookups.
// Returns error if templateDir is set but invalid.
func NewTemplateResolver(templateDir string) (*TemplateResolver, error) {
	resolver := &TemplateResolver{
		embedded: NewEmbeddedLoader(),
	}

	if templateDir != "" {
		fsLoader, err := NewFilesystemLoader(templateDir)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// Resolve loads the template identified by ref.
// Path-like references are read from disk on every call; names go through
// the custom-first, embedded-fallback lookup.
func (r *TemplateResolver) Resolve(ref string) (string, error) {
	if IsTemplatePath(ref) {
		return ReadTemplateFile(ref)
	}
	return r.LoadTemplate(ref)
}

// LoadTemplate loads a named template, trying the custom loader first.
func (r *TemplateResolver) LoadTemplate(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadTemplate(name)
	}

	content, err := r.custom.LoadTemplate(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrTemplateNotFound) {
		return "", err
	}

	return r.embedded.LoadTemplate(name)
}

// HasCustomLoader returns true if a template directory is configured.
func (r *TemplateResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// IsTemplatePath reports whether ref names a file rather than a template.
func IsTemplatePath(ref string) bool {
	lower := strings.ToLower(ref)
	return fileutil.IsFilePath(ref) ||
		strings.HasSuffix(lower, ".html") ||
		strings.HasSuffix(lower, ".htm")
}

// Compile-time interface check.
var _ TemplateLoader = (*TemplateResolver)(nil)
