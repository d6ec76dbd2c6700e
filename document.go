package ebookgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/alnah/go-ebookgen/internal/assets"
	"github.com/alnah/go-ebookgen/internal/fileutil"
	"github.com/alnah/go-ebookgen/internal/markdown"
	"github.com/alnah/go-ebookgen/internal/pipeline"
)

// DefaultTOCTitle heads the contents page.
const DefaultTOCTitle = "Contents"

// Default orphan and widow line counts for body text.
const (
	DefaultOrphans = 2
	DefaultWidows  = 2
)

// DocumentBuilder turns an Ebook into a styled standalone HTML document.
type DocumentBuilder struct {
	renderer  Renderer
	engine    string
	style     string
	assetPath string
	extraCSS  string
	tocTitle  string
	toc       bool
	lang      string

	css  string
	tmpl *template.Template

	cssInjector pipeline.CSSInjector
	tocInjector pipeline.TOCInjector
}

// DocumentOption configures a DocumentBuilder.
type DocumentOption func(*DocumentBuilder)

// WithRenderer sets the Markdown renderer, overriding WithRenderEngine.
func WithRenderer(r Renderer) DocumentOption {
	return func(b *DocumentBuilder) {
		b.renderer = r
	}
}

// WithRenderEngine selects a built-in renderer by name ("subset" or "goldmark").
func WithRenderEngine(engine string) DocumentOption {
	return func(b *DocumentBuilder) {
		b.engine = engine
	}
}

// WithStyle selects a style by name or by path to a CSS file.
func WithStyle(nameOrPath string) DocumentOption {
	return func(b *DocumentBuilder) {
		b.style = nameOrPath
	}
}

// WithAssetPath adds a directory of custom styles and templates, searched
// before the embedded ones.
func WithAssetPath(dir string) DocumentOption {
	return func(b *DocumentBuilder) {
		b.assetPath = dir
	}
}

// WithExtraCSS appends css after the selected style.
func WithExtraCSS(css string) DocumentOption {
	return func(b *DocumentBuilder) {
		b.extraCSS = css
	}
}

// WithTOC enables the contents page with the given heading.
func WithTOC(title string) DocumentOption {
	return func(b *DocumentBuilder) {
		b.toc = true
		b.tocTitle = title
	}
}

// WithoutTOC disables the contents page.
func WithoutTOC() DocumentOption {
	return func(b *DocumentBuilder) {
		b.toc = false
	}
}

// WithLang sets the document language attribute.
func WithLang(lang string) DocumentOption {
	return func(b *DocumentBuilder) {
		b.lang = lang
	}
}

// NewDocumentBuilder resolves the renderer, style and template up front so
// a bad configuration fails before any generation starts.
func NewDocumentBuilder(opts ...DocumentOption) (*DocumentBuilder, error) {
	b := &DocumentBuilder{
		style:       assets.DefaultStyleName,
		toc:         true,
		tocTitle:    DefaultTOCTitle,
		lang:        "en",
		cssInjector: &pipeline.CSSInjection{},
		tocInjector: pipeline.NewTOCInjection(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.renderer == nil {
		r, err := markdown.New(b.engine)
		if err != nil {
			return nil, err
		}
		b.renderer = r
	}

	resolver, err := assets.NewResolver(b.assetPath)
	if err != nil {
		return nil, err
	}

	css, err := loadStyle(resolver, b.style)
	if err != nil {
		return nil, err
	}
	b.css = css + buildPageBreaksCSS(DefaultOrphans, DefaultWidows)
	if strings.TrimSpace(b.extraCSS) != "" {
		b.css += "\n" + b.extraCSS
	}

	src, err := resolver.LoadTemplate(assets.DocumentTemplateName)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(assets.DocumentTemplateName).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	b.tmpl = tmpl

	return b, nil
}

// loadStyle reads a CSS file when nameOrPath looks like a path, otherwise
// resolves it as a named style.
func loadStyle(resolver assets.Loader, nameOrPath string) (string, error) {
	if fileutil.IsFilePath(nameOrPath) {
		data, err := os.ReadFile(nameOrPath) // #nosec G304 -- user-provided style path
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrStyleNotFound, nameOrPath)
			}
			return "", fmt.Errorf("reading style %s: %w", nameOrPath, err)
		}
		return string(data), nil
	}

	css, err := resolver.LoadStyle(nameOrPath)
	if errors.Is(err, assets.ErrStyleNotFound) {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, nameOrPath)
	}
	return css, err
}

type chapterView struct {
	ID       string
	Title    string
	Failed   bool
	Sections []string
	HTML     template.HTML
}

type documentView struct {
	Lang     string
	Title    string
	Topic    string
	Chapters []chapterView
}

// Build renders every chapter, executes the document template and injects
// the contents page and stylesheet.
func (b *DocumentBuilder) Build(ctx context.Context, book *Ebook) (*Document, error) {
	if book == nil {
		return nil, ErrNoEbook
	}

	view := documentView{
		Lang:     b.lang,
		Title:    book.Title,
		Topic:    book.Topic,
		Chapters: make([]chapterView, 0, len(book.Chapters)),
	}
	for i, ch := range book.Chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := b.renderer.Render(ctx, ch.Content)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", i+1, err)
		}
		view.Chapters = append(view.Chapters, chapterView{
			ID:       fmt.Sprintf("chapter-%d", i+1),
			Title:    ch.Title,
			Failed:   ch.Failed,
			Sections: ch.Sections,
			HTML:     template.HTML(body), // #nosec G203 -- renderer output escapes model text
		})
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	htmlContent := buf.String()

	if b.toc {
		var err error
		htmlContent, err = b.tocInjector.InjectTOC(ctx, htmlContent, &pipeline.TOCData{
			Title:    b.tocTitle,
			MinDepth: 2,
			MaxDepth: 2,
		})
		if err != nil {
			return nil, err
		}
	}

	htmlContent = b.cssInjector.InjectCSS(ctx, htmlContent, b.css)
	return &Document{Title: book.Title, HTML: htmlContent}, nil
}

// buildPageBreaksCSS starts every chapter and the contents page on a new
// page and keeps headings attached to the text that follows them.
func buildPageBreaksCSS(orphans, widows int) string {
	return fmt.Sprintf(`
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}
nav.toc, section.chapter {
  break-before: page;
  page-break-before: always;
}
p, li, blockquote {
  orphans: %d;
  widows: %d;
}
`, orphans, widows)
}
