package assets

import (
	"fmt"
	"unicode"
)

// MaxTemplateNameLength bounds a built-in or template-directory name.
const MaxTemplateNameLength = 64

// ValidateTemplateName checks that name maps to a single "<name>.html" file
// inside a template directory. Names may contain letters, digits, '-' and '_'
// only, which rules out separators, extensions and traversal.
func ValidateTemplateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxTemplateNameLength {
		return fmt.Errorf("%w: %d chars, max %d", ErrInvalidAssetName, len(name), MaxTemplateNameLength)
	}
	for _, r := range name {
		if r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return fmt.Errorf("%w: %q contains %q", ErrInvalidAssetName, name, r)
	}
	return nil
}
