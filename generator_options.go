package ebookgen

import (
	"log/slog"
	"time"
)

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithExporter sets the exporter used by Export. Without one, Export
// returns ErrNoExporter.
func WithExporter(e Exporter) GeneratorOption {
	return func(g *Generator) {
		g.exporter = e
	}
}

// WithDocumentBuilder sets the builder that turns an ebook into a document.
func WithDocumentBuilder(b *DocumentBuilder) GeneratorOption {
	return func(g *Generator) {
		g.builder = b
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithExportDelay waits d after entering the exporting state, giving
// observers time to render the document before the export starts.
func WithExportDelay(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.exportDelay = max(d, 0)
	}
}

// WithClock overrides the clock used for Snapshot.UpdatedAt.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRunIDFunc overrides how run IDs are generated.
func WithRunIDFunc(fn func() string) GeneratorOption {
	return func(g *Generator) {
		if fn != nil {
			g.newRunID = fn
		}
	}
}
