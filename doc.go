// Package ebookgen turns a topic into a generated ebook.
//
// # Quick Start
//
//	gen, err := ebookgen.NewGenerator(provider,
//	    ebookgen.WithExporter(exporter),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	book, err := gen.Generate(ctx, "bread baking")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := gen.Export(ctx)
//
// # Pipeline
//
//  1. The ContentProvider returns an Outline for the topic.
//  2. Chapter prose is fetched one chapter at a time, in outline order.
//     A failed chapter gets ChapterPlaceholder and the run continues.
//  3. The finished Ebook is rendered chapter by chapter from a small
//     Markdown subset (RenderMarkdown) into an HTML document.
//  4. On request, an Exporter prints the document to PDF through headless
//     Chrome and saves it under a name derived from the ebook title.
//
// # State
//
// A Generator owns a single state machine:
//
//	idle -> generating -> completed | error
//	completed -> exporting -> completed | error
//
// Any of idle, completed or error may start a new run. Observers either
// poll Snapshot or Subscribe to a stream of snapshots.
package ebookgen
