package provider

import (
	"fmt"
	"strings"
)

const outlineSystemPrompt = `You are an experienced non-fiction author planning a short ebook.
Reply with a single JSON object and nothing else, no prose and no code fences.
The object has this shape:
{"title": "Book title", "chapters": [{"title": "Chapter title", "sections": ["Section", "Section"]}]}
Plan between 4 and 8 chapters with 2 to 5 sections each.`

const chapterSystemPrompt = `You are an experienced non-fiction author writing one chapter of an ebook.
Write in Markdown using only: "## " and "### " headings, paragraphs separated by blank lines,
**bold**, *italic*, ` + "`inline code`" + `, "> " quotes and "- " bullet lists.
Do not repeat the chapter title as a heading. Do not wrap the reply in code fences.`

func outlinePrompt(topic string) string {
	return fmt.Sprintf("Plan an ebook about: %s", topic)
}

func chapterPrompt(topic, chapterTitle string, sections []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The ebook is about: %s\n", topic)
	fmt.Fprintf(&b, "Write the chapter titled %q.\n", chapterTitle)
	if len(sections) > 0 {
		b.WriteString("Cover these sections, each under its own \"## \" heading:\n")
		for _, s := range sections {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}
