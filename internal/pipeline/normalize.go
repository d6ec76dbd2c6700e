package pipeline

import (
	"regexp"
	"strings"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	trailingSpace      = regexp.MustCompile(`[ \t]+\n`)
)

// NormalizeMarkdown prepares model-written Markdown for rendering: line
// endings become \n, trailing blanks are dropped, runs of blank lines
// collapse to one and the result is trimmed. The renderers split
// paragraphs on "\n\n", so a CRLF reply would otherwise render as a single
// paragraph.
func NormalizeMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = trailingSpace.ReplaceAllString(content, "\n")
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
