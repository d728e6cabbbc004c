package assets

import (
	"fmt"
	"strings"
)

// AssetLoader loads stylesheets and template sets by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the report and page templates stored under name.
	// Returns ErrTemplateSetNotFound if neither template exists and
	// ErrIncompleteTemplateSet if only one does.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

const maxAssetNameLen = 64

// ValidateAssetName checks that an asset name is safe for use as a filename.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLen)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
