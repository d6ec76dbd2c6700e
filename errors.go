package ebookgen

import "errors"

// Sentinel errors for generation runs.
var (
	ErrEmptyTopic          = errors.New("topic cannot be empty")
	ErrOutline             = errors.New("outline generation failed")
	ErrNoChapters          = errors.New("outline has no chapters")
	ErrProviderUnavailable = errors.New("content provider unavailable")
	ErrBusy                = errors.New("a generation or export is already in progress")
	ErrNoEbook             = errors.New("no ebook to export")
	ErrExport              = errors.New("export failed")
	ErrNoProvider          = errors.New("no content provider configured")
	ErrNoExporter          = errors.New("no exporter configured")
)

// Document building errors.
var (
	ErrDocumentRender = errors.New("document template rendering failed")
	ErrStyleNotFound  = errors.New("style not found")
)

// PDF export errors.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrWritePDF       = errors.New("failed to write PDF file")

	// Export settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidScale       = errors.New("invalid scale")
	ErrInvalidBackground  = errors.New("invalid background color")
)
