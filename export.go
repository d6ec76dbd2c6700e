package ebookgen

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Page sizes accepted by ExportSettings.PageSize.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientations accepted by ExportSettings.Orientation.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Export setting bounds.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.75
	MinScale      = 0.1
	MaxScale      = 2.0
	DefaultScale  = 1.0

	DefaultExportTimeout = 2 * time.Minute
)

// paperSizes holds portrait width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ExportSettings controls PDF page layout and output location.
type ExportSettings struct {
	PageSize    string
	Orientation string
	Margin      float64 // inches, all four sides
	Scale       float64
	Background  string // hex colour, empty keeps the stylesheet's
	PageNumbers bool
	OutputDir   string
	Timeout     time.Duration
}

// DefaultExportSettings returns letter portrait with page numbers, written
// to the current directory.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		PageSize:    PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
		Scale:       DefaultScale,
		PageNumbers: true,
		OutputDir:   ".",
		Timeout:     DefaultExportTimeout,
	}
}

// Validate normalises case and checks every field against its bounds.
func (s *ExportSettings) Validate() error {
	s.PageSize = strings.ToLower(strings.TrimSpace(s.PageSize))
	s.Orientation = strings.ToLower(strings.TrimSpace(s.Orientation))

	if _, ok := paperSizes[s.PageSize]; !ok {
		return fmt.Errorf("%w: %q (valid: letter, a4, legal)", ErrInvalidPageSize, s.PageSize)
	}
	if s.Orientation != OrientationPortrait && s.Orientation != OrientationLandscape {
		return fmt.Errorf("%w: %q (valid: portrait, landscape)", ErrInvalidOrientation, s.Orientation)
	}
	if s.Margin < MinMargin || s.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f inches)", ErrInvalidMargin, s.Margin, MinMargin, MaxMargin)
	}
	if s.Scale < MinScale || s.Scale > MaxScale {
		return fmt.Errorf("%w: %.2f (must be between %.1f and %.1f)", ErrInvalidScale, s.Scale, MinScale, MaxScale)
	}
	if s.Background != "" && !hexColorPattern.MatchString(s.Background) {
		return fmt.Errorf("%w: %q (use #rgb or #rrggbb)", ErrInvalidBackground, s.Background)
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultExportTimeout
	}
	return nil
}

// paperDimensions returns width and height in inches for the page size and
// orientation. Settings must be validated.
func (s *ExportSettings) paperDimensions() (width, height float64) {
	dims := paperSizes[s.PageSize]
	if s.Orientation == OrientationLandscape {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

// printCSS forces the background colour onto every printed page.
func (s *ExportSettings) printCSS() string {
	if s.Background == "" {
		return ""
	}
	return fmt.Sprintf(`
html, body {
  background-color: %s;
  -webkit-print-color-adjust: exact;
  print-color-adjust: exact;
}
`, s.Background)
}
