package markdown

import (
	"context"
	"regexp"
	"strings"
)

// Substitution rules, applied in declaration order over the whole text.
var (
	h3Pattern         = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Pattern         = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Pattern         = regexp.MustCompile(`(?m)^# (.*)$`)
	blockquotePattern = regexp.MustCompile(`(?m)^> (.*)$`)
	strongPattern     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emPattern         = regexp.MustCompile(`\*(.*?)\*`)
	codePattern       = regexp.MustCompile("`(.*?)`")
)

// breakPattern matches the line separators left once newlines are gone.
var breakPattern = regexp.MustCompile(`<br>|</p><p>`)

// escaper neutralises raw markup in model output. '>' is left alone so
// blockquote lines still match.
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;")

// Render converts the Markdown subset used for generated chapters to HTML.
// It is a total function: any input yields output, and empty input yields "".
// The result is not an AST rendering; nested constructs are not guaranteed
// and rendering twice is not idempotent.
func Render(md string) string {
	if md == "" {
		return ""
	}

	s := strings.ReplaceAll(md, "\r\n", "\n")
	s = escaper.Replace(s)

	s = h3Pattern.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2Pattern.ReplaceAllString(s, "<h2>$1</h2>")
	s = h1Pattern.ReplaceAllString(s, "<h1>$1</h1>")
	s = blockquotePattern.ReplaceAllString(s, "<blockquote>$1</blockquote>")
	s = strongPattern.ReplaceAllString(s, "<strong>$1</strong>")
	s = emPattern.ReplaceAllString(s, "<em>$1</em>")
	s = codePattern.ReplaceAllString(s, "<code>$1</code>")

	s = strings.ReplaceAll(s, "\n\n", "</p><p>")
	s = strings.ReplaceAll(s, "\n", "<br>")

	s = wrapLists(s)

	return "<p>" + s + "</p>"
}

// wrapLists turns "- x" and "* x" lines into <li> items. A run of items
// joined by <br> becomes one <ul> and the <br> between items is dropped.
// A paragraph break closes the list.
func wrapLists(s string) string {
	locs := breakPattern.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		if item, ok := listItem(s); ok {
			return "<ul>" + item + "</ul>"
		}
		return s
	}

	segments := make([]string, 0, len(locs)+1)
	seps := make([]string, 0, len(locs))
	start := 0
	for _, loc := range locs {
		segments = append(segments, s[start:loc[0]])
		seps = append(seps, s[loc[0]:loc[1]])
		start = loc[1]
	}
	segments = append(segments, s[start:])

	var b strings.Builder
	b.Grow(len(s) + 16)
	inList := false
	for i, seg := range segments {
		item, isItem := listItem(seg)
		switch {
		case isItem && !inList:
			b.WriteString("<ul>")
			b.WriteString(item)
			inList = true
		case isItem:
			b.WriteString(item)
		default:
			b.WriteString(seg)
		}

		if i == len(seps) {
			break
		}
		if inList {
			_, nextIsItem := listItem(segments[i+1])
			if seps[i] == "<br>" && nextIsItem {
				continue
			}
			b.WriteString("</ul>")
			inList = false
		}
		b.WriteString(seps[i])
	}
	if inList {
		b.WriteString("</ul>")
	}
	return b.String()
}

func listItem(seg string) (string, bool) {
	if strings.HasPrefix(seg, "- ") || strings.HasPrefix(seg, "* ") {
		return "<li>" + seg[2:] + "</li>", true
	}
	return "", false
}

// SubsetRenderer adapts Render to the Renderer interface.
type SubsetRenderer struct{}

var _ Renderer = SubsetRenderer{}

// Render returns the subset HTML for md. Only a cancelled context fails.
func (SubsetRenderer) Render(ctx context.Context, md string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Render(md), nil
}
