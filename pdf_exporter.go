package ebookgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-ebookgen/internal/fileutil"
	"github.com/alnah/go-ebookgen/internal/pipeline"
	"github.com/alnah/go-ebookgen/internal/process"
)

// footerMarginInches is the minimum bottom margin leaving room for the
// page-number footer.
const footerMarginInches = 0.6

// pdfRenderer renders a local HTML file to PDF bytes. It lets tests run the
// exporter without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

var (
	_ Exporter    = (*PDFExporter)(nil)
	_ pdfRenderer = (*rodRenderer)(nil)
)

// PDFExporter prints documents to PDF through headless Chrome and writes
// them to <OutputDir>/<sanitized title>.pdf. Exports are serialized; the
// browser is launched on first use and reused until Close.
type PDFExporter struct {
	settings ExportSettings
	renderer pdfRenderer
	css      pipeline.CSSInjector

	mu sync.Mutex
}

// NewPDFExporter validates settings and returns an exporter. No browser is
// started until the first export.
func NewPDFExporter(settings ExportSettings) (*PDFExporter, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &PDFExporter{
		settings: settings,
		renderer: newRodRenderer(settings.Timeout),
		css:      &pipeline.CSSInjection{},
	}, nil
}

// Settings returns the validated settings.
func (e *PDFExporter) Settings() ExportSettings {
	return e.settings
}

// Export renders doc and saves the PDF, replacing any file of the same name.
func (e *PDFExporter) Export(ctx context.Context, doc *Document) (*ExportResult, error) {
	if doc == nil {
		return nil, ErrNoEbook
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	htmlContent := e.css.InjectCSS(ctx, doc.HTML, e.settings.printCSS())

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	data, err := e.renderer.RenderFromFile(ctx, tmpPath, buildPDFOptions(&e.settings))
	if err != nil {
		return nil, err
	}

	path := filepath.Join(e.settings.OutputDir, fileutil.SanitizeFilename(doc.Title)+".pdf")
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	return &ExportResult{Path: path, Bytes: len(data)}, nil
}

// Close shuts down the browser if one was started.
func (e *PDFExporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderer.Close()
}

// buildPDFOptions maps settings onto Chrome's print parameters.
func buildPDFOptions(s *ExportSettings) *proto.PagePrintToPDF {
	width, height := s.paperDimensions()

	marginBottom := s.Margin
	if s.PageNumbers {
		marginBottom = max(marginBottom, footerMarginInches)
	}

	opts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(s.Margin),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(s.Margin),
		MarginRight:     floatPtr(s.Margin),
		Scale:           floatPtr(s.Scale),
		PrintBackground: true,
	}

	if s.PageNumbers {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = "<span></span>"
		opts.FooterTemplate = buildFooterTemplate(s.Margin)
	}
	return opts
}

// buildFooterTemplate centres "page / total" in Chrome's native footer.
// Chrome fills the pageNumber and totalPages classes.
func buildFooterTemplate(marginInches float64) string {
	return fmt.Sprintf(`<div style="font-size: 10px; font-family: sans-serif; color: #888; width: 100%%; text-align: center; padding: 0 %.2fin;">`+
		`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`, marginInches)
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodRenderer implements pdfRenderer with go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (containers, CI images)
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || bin != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close closes the browser and kills the whole Chrome process group, so no
// renderer or GPU helper outlives the exporter.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			_ = process.KillGroup(pid)
		}
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page = page.Context(ctx)
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}
