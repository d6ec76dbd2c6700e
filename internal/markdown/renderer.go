// Package markdown renders generated chapter Markdown to HTML fragments.
//
// Two engines are available. The subset engine is a fixed chain of regex
// substitutions covering headings, blockquotes, emphasis, inline code,
// paragraphs and flat lists; it is the default. The goldmark engine is a
// full CommonMark/GFM renderer with highlighted code blocks.
package markdown

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Engine names accepted by New.
const (
	EngineSubset   = "subset"
	EngineGoldmark = "goldmark"
)

var (
	ErrRender        = errors.New("markdown rendering failed")
	ErrUnknownEngine = errors.New("unknown markdown engine")
)

// Renderer converts Markdown to an HTML fragment.
type Renderer interface {
	Render(ctx context.Context, md string) (string, error)
}

// New returns the renderer for engine. An empty name selects the subset engine.
func New(engine string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSubset:
		return SubsetRenderer{}, nil
	case EngineGoldmark:
		return NewGoldmarkRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s, %s)", ErrUnknownEngine, engine, EngineSubset, EngineGoldmark)
	}
}
