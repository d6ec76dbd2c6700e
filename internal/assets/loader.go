package assets

import (
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName     = "default"
	DocumentTemplateName = "document"
)

// Loader loads CSS styles and HTML templates by bare name.
type Loader interface {
	// LoadStyle returns ErrStyleNotFound or ErrInvalidAssetName on failure.
	LoadStyle(name string) (string, error)
	// LoadTemplate returns ErrTemplateNotFound or ErrInvalidAssetName on failure.
	LoadTemplate(name string) (string, error)
	// Styles lists available style names, sorted.
	Styles() []string
}

// ValidateAssetName rejects empty names and names with separators or dots,
// so a name can never address a file outside its asset directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
