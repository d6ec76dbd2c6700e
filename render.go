package ebookgen

import "github.com/alnah/go-ebookgen/internal/markdown"

// RenderMarkdown converts chapter Markdown to HTML using the fixed subset
// rules: headings, blockquotes, strong, emphasis, inline code, paragraphs,
// line breaks and flat lists. It is total; empty input yields empty output.
func RenderMarkdown(md string) string {
	return markdown.Render(md)
}
