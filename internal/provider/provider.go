// Package provider implements ebookgen.ContentProvider on top of a chat
// model. Provider turns prompts into outlines and chapter Markdown through a
// Messenger; AnthropicMessenger talks to the Anthropic Messages API and
// CachingProvider memoises successful results for the life of the process.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/alnah/go-ebookgen"
	"github.com/alnah/go-ebookgen/internal/pipeline"
)

var (
	ErrRequest          = errors.New("model request failed")
	ErrEmptyReply       = errors.New("model returned an empty reply")
	ErrMalformedOutline = errors.New("model returned a malformed outline")
)

// Messenger sends one system and user prompt pair and returns the reply text.
type Messenger interface {
	Send(ctx context.Context, system, user string) (string, error)
}

// Provider implements ebookgen.ContentProvider with a Messenger.
type Provider struct {
	messenger Messenger
	log       *slog.Logger

	mu      sync.Mutex
	lastErr string
}

var _ ebookgen.ContentProvider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// New returns a Provider sending prompts through m.
func New(m Messenger, opts ...Option) *Provider {
	p := &Provider{messenger: m, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Outline asks the model for a JSON outline and parses it. An outline with
// no usable chapters is returned as is; the caller decides it is a failure.
func (p *Provider) Outline(ctx context.Context, topic string) (*ebookgen.Outline, error) {
	p.setLastError("")

	reply, err := p.messenger.Send(ctx, outlineSystemPrompt, outlinePrompt(topic))
	if err != nil {
		p.fail("outline request: %v", err)
		return nil, err
	}

	outline, err := ParseOutline(reply, topic)
	if err != nil {
		p.fail("outline reply: %v", err)
		return nil, err
	}
	return outline, nil
}

// ChapterContent asks the model for one chapter. On failure it returns
// ebookgen.ChapterPlaceholder together with the error.
func (p *Provider) ChapterContent(ctx context.Context, topic, chapterTitle string, sections []string) (string, error) {
	p.setLastError("")

	reply, err := p.messenger.Send(ctx, chapterSystemPrompt, chapterPrompt(topic, chapterTitle, sections))
	if err != nil {
		p.fail("chapter %q: %v", chapterTitle, err)
		return ebookgen.ChapterPlaceholder, err
	}

	content := pipeline.NormalizeMarkdown(stripFences(reply))
	if content == "" {
		p.fail("chapter %q: %v", chapterTitle, ErrEmptyReply)
		return ebookgen.ChapterPlaceholder, ErrEmptyReply
	}
	return content, nil
}

// LastError describes the last failed call, or is empty.
func (p *Provider) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Provider) setLastError(s string) {
	p.mu.Lock()
	p.lastErr = s
	p.mu.Unlock()
}

func (p *Provider) fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.setLastError(msg)
	p.log.Warn("provider call failed", "detail", msg)
}

// ParseOutline extracts an outline from a model reply. Code fences and
// prose around the JSON object are tolerated. Chapters may be objects with
// title and sections, or bare strings. An empty title falls back to topic.
func ParseOutline(reply, topic string) (*ebookgen.Outline, error) {
	text := stripFences(strings.TrimSpace(reply))
	if !gjson.Valid(text) {
		start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedOutline)
		}
		text = text[start : end+1]
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedOutline)
		}
	}

	root := gjson.Parse(text)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedOutline)
	}

	outline := &ebookgen.Outline{Title: strings.TrimSpace(root.Get("title").String())}
	if outline.Title == "" {
		outline.Title = strings.TrimSpace(topic)
	}

	root.Get("chapters").ForEach(func(_, ch gjson.Result) bool {
		if ch.Type == gjson.String {
			if title := strings.TrimSpace(ch.String()); title != "" {
				outline.Chapters = append(outline.Chapters, ebookgen.OutlineChapter{Title: title})
			}
			return true
		}

		title := strings.TrimSpace(ch.Get("title").String())
		if title == "" {
			return true
		}
		entry := ebookgen.OutlineChapter{Title: title}
		for _, s := range ch.Get("sections").Array() {
			if section := strings.TrimSpace(s.String()); section != "" {
				entry.Sections = append(entry.Sections, section)
			}
		}
		outline.Chapters = append(outline.Chapters, entry)
		return true
	})

	return outline, nil
}

// stripFences removes a code fence wrapping the whole text, with or without
// a language tag.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return text
	}
	inner := strings.TrimSuffix(trimmed[3:], "```")
	if nl := strings.IndexByte(inner, '\n'); nl != -1 && !strings.ContainsAny(inner[:nl], "{[ ") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}
