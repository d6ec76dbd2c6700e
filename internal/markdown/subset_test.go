package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "h1", input: "# Title", expected: "<p><h1>Title</h1></p>"},
		{name: "h2", input: "## Two", expected: "<p><h2>Two</h2></p>"},
		{name: "h3", input: "### Three", expected: "<p><h3>Three</h3></p>"},
		{name: "heading needs space", input: "###NoSpace", expected: "<p>###NoSpace</p>"},
		{
			name:     "heading then emphasis",
			input:    "## Section\nSome *text*.",
			expected: "<p><h2>Section</h2><br>Some <em>text</em>.</p>",
		},
		{
			name:     "strong before em",
			input:    "**bold** and *italic*",
			expected: "<p><strong>bold</strong> and <em>italic</em></p>",
		},
		{name: "blockquote", input: "> quoted", expected: "<p><blockquote>quoted</blockquote></p>"},
		{name: "inline code", input: "Use `go test` now", expected: "<p>Use <code>go test</code> now</p>"},
		{name: "paragraph break", input: "one\n\ntwo", expected: "<p>one</p><p>two</p>"},
		{name: "line break", input: "one\ntwo", expected: "<p>one<br>two</p>"},
		{name: "dash list", input: "- a\n- b", expected: "<p><ul><li>a</li><li>b</li></ul></p>"},
		{name: "star list", input: "* a\n* b", expected: "<p><ul><li>a</li><li>b</li></ul></p>"},
		{name: "single item", input: "- only", expected: "<p><ul><li>only</li></ul></p>"},
		{
			name:     "list between text",
			input:    "intro\n- a\n- b\n\nafter",
			expected: "<p>intro<br><ul><li>a</li><li>b</li></ul></p><p>after</p>",
		},
		{
			name:     "paragraph break splits lists",
			input:    "- a\n\n- b",
			expected: "<p><ul><li>a</li></ul></p><p><ul><li>b</li></ul></p>",
		},
		{
			name:     "text after list keeps break",
			input:    "- a\ntext",
			expected: "<p><ul><li>a</li></ul><br>text</p>",
		},
		{
			name:     "inline markup inside item",
			input:    "- **bold** item",
			expected: "<p><ul><li><strong>bold</strong> item</li></ul></p>",
		},
		{name: "escapes markup", input: "a < b & c", expected: "<p>a &lt; b &amp; c</p>"},
		{name: "crlf normalised", input: "# T\r\nx", expected: "<p><h1>T</h1><br>x</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Render(tt.input)
			if got != tt.expected {
				t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRender_Total(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"*", "**", "***", "`", "- ", "* ", "\n", "\n\n\n", "> ", "#",
		"**unclosed", "`a` `b", "- a\n\n\n- b", "<br>", "</p><p>",
		strings.Repeat("- x\n", 200),
	}
	for _, in := range inputs {
		got := Render(in)
		if !strings.HasPrefix(got, "<p>") || !strings.HasSuffix(got, "</p>") {
			t.Errorf("Render(%q) = %q, want <p>-wrapped output", in, got)
		}
	}
}

func TestRender_NotIdempotent(t *testing.T) {
	t.Parallel()

	once := Render("# Title")
	if twice := Render(once); twice == once {
		t.Errorf("Render applied twice returned the same output %q", once)
	}
}

func TestSubsetRenderer(t *testing.T) {
	t.Parallel()

	got, err := SubsetRenderer{}.Render(context.Background(), "# Title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "<p><h1>Title</h1></p>" {
		t.Errorf("Render() = %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (SubsetRenderer{}).Render(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
