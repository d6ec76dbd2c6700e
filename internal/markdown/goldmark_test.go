package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewGoldmarkRenderer()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "heading without id",
			input:    "## Kneading",
			contains: []string{"<h2>Kneading</h2>"},
			excludes: []string{"id="},
		},
		{
			name:     "gfm table",
			input:    "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "highlighted code uses classes",
			input:    "```go\nfunc main() {}\n```",
			contains: []string{`class="chroma"`},
		},
		{
			name:     "raw html dropped",
			input:    "<script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
		{
			name:     "hard wraps",
			input:    "one\ntwo",
			contains: []string{"one<br />"},
		},
		{
			name:     "fragment only",
			input:    "text",
			excludes: []string{"<html", "<body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Render(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Render(%q) missing %q in %q", tt.input, want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Render(%q) should not contain %q: %q", tt.input, bad, got)
				}
			}
		})
	}
}

func TestGoldmarkRenderer_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkRenderer().Render(ctx, "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		engine  string
		wantErr error
	}{
		{engine: ""},
		{engine: "subset"},
		{engine: " Goldmark "},
		{engine: "pandoc", wantErr: ErrUnknownEngine},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			t.Parallel()

			r, err := New(tt.engine)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New(%q) error = %v, want %v", tt.engine, err, tt.wantErr)
				}
				return
			}
			if err != nil || r == nil {
				t.Fatalf("New(%q) = %v, %v", tt.engine, r, err)
			}
		})
	}
}
