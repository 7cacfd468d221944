// Package assets loads HTML report templates.
//
// # Loader Architecture
//
//	TemplateLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in report)
//	    ├── FilesystemLoader  - loads {name}.html from a template directory
//	    └── TemplateResolver  - direct file paths, or names with custom-first fallback
//
// A reference containing a path separator or ending in .html/.htm is read
// directly from disk and never falls back: a missing file is an error.
// Bare names are looked up in the configured template directory first, then
// in the embedded templates.
//
// # Security
//
// Template names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
