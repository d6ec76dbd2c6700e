package ebookgen

import "context"

// ContentProvider supplies outline and chapter text.
//
// Outline returns a nil outline or an error on missing credentials, network
// failure or malformed model output. ChapterContent returns
// ChapterPlaceholder together with the error when it fails, never an empty
// string. Errors wrapping ErrProviderUnavailable abort the whole run.
//
// LastError holds a human-readable description of the last failure. It is
// cleared when a call starts and set only when the call fails.
type ContentProvider interface {
	Outline(ctx context.Context, topic string) (*Outline, error)
	ChapterContent(ctx context.Context, topic, chapterTitle string, sections []string) (string, error)
	LastError() string
}

// Document is a rendered ebook ready for export.
type Document struct {
	Title string
	HTML  string
}

// ExportResult describes a saved export.
type ExportResult struct {
	Path  string
	Bytes int
}

// Exporter saves a rendered document, typically as a PDF file.
type Exporter interface {
	Export(ctx context.Context, doc *Document) (*ExportResult, error)
	Close() error
}

// Renderer converts chapter Markdown to an HTML fragment.
type Renderer interface {
	Render(ctx context.Context, md string) (string, error)
}
