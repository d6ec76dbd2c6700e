package ebookgen

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-ebookgen/internal/fileutil"
)

var _ Exporter = (*HTMLExporter)(nil)

// HTMLExporter writes the rendered document as a standalone HTML file. It
// needs no browser.
type HTMLExporter struct {
	outputDir string
}

// NewHTMLExporter writes into outputDir, "." when empty.
func NewHTMLExporter(outputDir string) *HTMLExporter {
	if outputDir == "" {
		outputDir = "."
	}
	return &HTMLExporter{outputDir: outputDir}
}

// Export writes <outputDir>/<sanitized title>.html.
func (e *HTMLExporter) Export(ctx context.Context, doc *Document) (*ExportResult, error) {
	if doc == nil {
		return nil, ErrNoEbook
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(e.outputDir, fileutil.SanitizeFilename(doc.Title)+".html")
	if err := fileutil.WriteFileAtomic(path, []byte(doc.HTML), 0o644); err != nil {
		return nil, fmt.Errorf("writing HTML: %w", err)
	}
	return &ExportResult{Path: path, Bytes: len(doc.HTML)}, nil
}

func (e *HTMLExporter) Close() error { return nil }
