package ebookgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Progress messages.
const (
	msgFetchingOutline = "fetching outline"
	msgOutlineReady    = "outline ready"
	msgEbookReady      = "ebook ready"
	msgExporting       = "exporting"
	msgGenCanceled     = "generation canceled"
	msgExportCanceled  = "export canceled"
)

// run is one in-flight generation or export. err is set when the run is
// terminated from outside (Cancel, Fail) so the worker can return it.
type run struct {
	id     string
	topic  string
	export bool
	ctx    context.Context
	cancel context.CancelFunc
	err    error
}

// Generator owns the generation state machine. All state lives behind mu and
// every mutation publishes a Snapshot to subscribers.
//
// A Generator runs at most one generation or export at a time; concurrent
// requests fail with ErrBusy.
type Generator struct {
	provider    ContentProvider
	exporter    Exporter
	builder     *DocumentBuilder
	log         *slog.Logger
	now         func() time.Time
	newRunID    func() string
	exportDelay time.Duration

	mu      sync.Mutex
	snap    Snapshot
	active  *run
	subs    map[uint64]chan Snapshot
	nextSub uint64
}

// NewGenerator creates a Generator for provider. Without WithDocumentBuilder
// the default builder (subset renderer, embedded default style) is used.
func NewGenerator(provider ContentProvider, opts ...GeneratorOption) (*Generator, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}

	g := &Generator{
		provider: provider,
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
		newRunID: uuid.NewString,
		subs:     make(map[uint64]chan Snapshot),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.builder == nil {
		b, err := NewDocumentBuilder()
		if err != nil {
			return nil, err
		}
		g.builder = b
	}

	g.snap = Snapshot{State: StateIdle, UpdatedAt: g.now()}
	return g, nil
}

// Snapshot returns a copy of the current state.
func (g *Generator) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap.clone()
}

// Subscribe returns a channel receiving a snapshot after every state change,
// starting with the current one. A slow reader skips intermediate snapshots
// but always finds the latest one on its next read. The returned func
// unsubscribes and closes the channel; it is safe to call more than once.
func (g *Generator) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = ch
	ch <- g.snap.clone()
	g.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			close(ch)
			g.mu.Unlock()
		})
	}
}

// Generate runs a full generation for topic and blocks until it ends.
// The returned error is the one that put the generator in the error state.
func (g *Generator) Generate(ctx context.Context, topic string) (*Ebook, error) {
	r, err := g.beginGeneration(ctx, topic)
	if err != nil {
		return nil, err
	}
	return g.generate(r)
}

// Start begins a generation in the background and returns its run ID.
// Validation and busy errors are returned synchronously. ctx bounds the
// whole run, so it should outlive the caller's request.
func (g *Generator) Start(ctx context.Context, topic string) (string, error) {
	r, err := g.beginGeneration(ctx, topic)
	if err != nil {
		return "", err
	}
	go func() { _, _ = g.generate(r) }()
	return r.id, nil
}

// Export renders the retained ebook and hands it to the exporter, blocking
// until the export ends. It is allowed from completed, and from error while
// an ebook is still retained. A failed export keeps the ebook.
func (g *Generator) Export(ctx context.Context) (*ExportResult, error) {
	r, book, err := g.beginExport(ctx)
	if err != nil {
		return nil, err
	}
	return g.export(r, book)
}

// StartExport begins an export in the background.
func (g *Generator) StartExport(ctx context.Context) error {
	r, book, err := g.beginExport(ctx)
	if err != nil {
		return err
	}
	go func() { _, _ = g.export(r, book) }()
	return nil
}

// Document renders the retained ebook without exporting it.
func (g *Generator) Document(ctx context.Context) (*Document, error) {
	g.mu.Lock()
	book := g.snap.Ebook
	g.mu.Unlock()

	if book == nil {
		return nil, ErrNoEbook
	}
	return g.builder.Build(ctx, book)
}

// Cancel stops the in-flight generation or export. The run ends in the error
// state with an error wrapping context.Canceled. It reports whether a run
// was active.
func (g *Generator) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active == nil {
		return false
	}
	msg := msgGenCanceled
	if g.active.export {
		msg = msgExportCanceled
	}
	g.terminateLocked(fmt.Errorf("%s: %w", msg, context.Canceled))
	return true
}

// Fail forces an in-flight generation into the error state, for failures
// reported by the provider outside a call. The error is wrapped with
// ErrProviderUnavailable unless it already matches it. It reports whether a
// generation was active.
func (g *Generator) Fail(err error) bool {
	if err == nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active == nil || g.active.export {
		return false
	}
	if !errors.Is(err, ErrProviderUnavailable) {
		err = fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	g.terminateLocked(err)
	return true
}

func (g *Generator) beginGeneration(ctx context.Context, topic string) (*run, error) {
	topic = strings.TrimSpace(topic)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != nil {
		return nil, ErrBusy
	}
	if topic == "" {
		g.setLocked(func(s *Snapshot) {
			s.State = StateError
			s.Err = ErrEmptyTopic.Error()
			s.Progress = Progress{Message: ErrEmptyTopic.Error()}
		})
		return nil, ErrEmptyTopic
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{id: g.newRunID(), topic: topic, ctx: runCtx, cancel: cancel}
	g.active = r

	g.setLocked(func(s *Snapshot) {
		s.RunID = r.id
		s.Topic = topic
		s.State = StateGenerating
		s.Progress = Progress{Current: 0, Total: 1, Message: msgFetchingOutline}
		s.Err = ""
		s.Ebook = nil
		s.ExportPath = ""
	})
	g.log.Info("generation started", "run_id", r.id, "topic", topic)
	return r, nil
}

func (g *Generator) generate(r *run) (book *Ebook, err error) {
	defer r.cancel()
	defer func() {
		if p := recover(); p != nil {
			book, err = nil, g.finishError(r, fmt.Errorf("internal error: %v", p))
		}
	}()

	outline, err := g.provider.Outline(r.ctx, r.topic)
	if ierr := g.interrupted(r); ierr != nil {
		return nil, ierr
	}
	if err := g.checkOutline(outline, err); err != nil {
		return nil, g.finishError(r, err)
	}

	n := len(outline.Chapters)
	if !g.update(r, func(s *Snapshot) {
		s.Progress = Progress{Current: 0, Total: n, Message: msgOutlineReady}
	}) {
		return nil, g.runErr(r)
	}

	chapters := make([]Chapter, 0, n)
	for i, oc := range outline.Chapters {
		if !g.update(r, func(s *Snapshot) {
			s.Progress = Progress{
				Current: i + 1,
				Total:   n,
				Message: fmt.Sprintf("generating chapter %d/%d: %s", i+1, n, oc.Title),
			}
		}) {
			return nil, g.runErr(r)
		}

		sections := slices.Clone(oc.Sections)
		content, err := g.provider.ChapterContent(r.ctx, r.topic, oc.Title, sections)
		if ierr := g.interrupted(r); ierr != nil {
			return nil, ierr
		}
		if errors.Is(err, ErrProviderUnavailable) {
			return nil, g.finishError(r, fmt.Errorf("chapter %d/%d %q: %w", i+1, n, oc.Title, err))
		}

		failed := err != nil
		if strings.TrimSpace(content) == "" {
			content, failed = ChapterPlaceholder, true
		}
		if failed {
			g.log.Warn("chapter generation failed, using placeholder",
				"run_id", r.id, "chapter", i+1, "title", oc.Title, "error", err, "detail", g.provider.LastError())
		}

		chapters = append(chapters, Chapter{Title: oc.Title, Sections: sections, Content: content, Failed: failed})
	}

	title := strings.TrimSpace(outline.Title)
	if title == "" {
		title = r.topic
	}
	book = &Ebook{Title: title, Topic: r.topic, Chapters: chapters}

	g.mu.Lock()
	if g.active != r {
		g.mu.Unlock()
		return nil, r.err
	}
	g.active = nil
	g.setLocked(func(s *Snapshot) {
		s.State = StateCompleted
		s.Progress = Progress{Current: n, Total: n, Message: msgEbookReady}
		s.Ebook = book
	})
	g.mu.Unlock()

	g.log.Info("generation completed", "run_id", r.id, "title", title,
		"chapters", n, "failed_chapters", book.FailedChapters())
	return book.Clone(), nil
}

// checkOutline turns a provider result into nil or an ErrOutline error
// carrying the provider's last error detail.
func (g *Generator) checkOutline(outline *Outline, err error) error {
	switch {
	case err != nil:
		err = fmt.Errorf("%w: %w", ErrOutline, err)
	case outline == nil:
		err = fmt.Errorf("%w: provider returned no outline", ErrOutline)
	case len(outline.Chapters) == 0:
		err = fmt.Errorf("%w: %w", ErrOutline, ErrNoChapters)
	default:
		return nil
	}

	if detail := g.provider.LastError(); detail != "" && !strings.Contains(err.Error(), detail) {
		err = fmt.Errorf("%w (%s)", err, detail)
	}
	return err
}

func (g *Generator) beginExport(ctx context.Context) (*run, *Ebook, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.exporter == nil {
		return nil, nil, ErrNoExporter
	}
	if g.active != nil {
		return nil, nil, ErrBusy
	}
	book := g.snap.Ebook
	if book == nil {
		return nil, nil, ErrNoEbook
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{id: g.snap.RunID, topic: book.Topic, export: true, ctx: runCtx, cancel: cancel}
	g.active = r

	n := len(book.Chapters)
	g.setLocked(func(s *Snapshot) {
		s.State = StateExporting
		s.Err = ""
		s.ExportPath = ""
		s.Progress = Progress{Current: n, Total: n, Message: msgExporting}
	})
	g.log.Info("export started", "run_id", r.id, "title", book.Title)
	return r, book, nil
}

func (g *Generator) export(r *run, book *Ebook) (res *ExportResult, err error) {
	defer r.cancel()
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, g.finishError(r, fmt.Errorf("%w: internal error: %v", ErrExport, p))
		}
	}()

	if g.exportDelay > 0 {
		timer := time.NewTimer(g.exportDelay)
		select {
		case <-timer.C:
		case <-r.ctx.Done():
			timer.Stop()
		}
		if ierr := g.interrupted(r); ierr != nil {
			return nil, ierr
		}
	}

	doc, err := g.builder.Build(r.ctx, book)
	if ierr := g.interrupted(r); ierr != nil {
		return nil, ierr
	}
	if err != nil {
		return nil, g.finishError(r, fmt.Errorf("%w: %w", ErrExport, err))
	}

	res, err = g.exporter.Export(r.ctx, doc)
	if ierr := g.interrupted(r); ierr != nil {
		return nil, ierr
	}
	if err != nil {
		return nil, g.finishError(r, fmt.Errorf("%w: %w", ErrExport, err))
	}
	if res == nil {
		return nil, g.finishError(r, fmt.Errorf("%w: exporter returned no result", ErrExport))
	}

	g.mu.Lock()
	if g.active != r {
		g.mu.Unlock()
		return nil, r.err
	}
	g.active = nil
	g.setLocked(func(s *Snapshot) {
		s.State = StateCompleted
		s.ExportPath = res.Path
		s.Progress.Message = "exported to " + res.Path
	})
	g.mu.Unlock()

	g.log.Info("export completed", "run_id", r.id, "path", res.Path, "bytes", res.Bytes)
	return res, nil
}

// interrupted returns the run's error if it was terminated from outside, or
// terminates it if its context is done. It returns nil while the run is live.
func (g *Generator) interrupted(r *run) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != r {
		return r.err
	}
	ctxErr := r.ctx.Err()
	if ctxErr == nil {
		return nil
	}

	msg := msgGenCanceled
	if r.export {
		msg = msgExportCanceled
	}
	g.terminateLocked(fmt.Errorf("%s: %w", msg, ctxErr))
	return r.err
}

// update applies fn if r is still the active run.
func (g *Generator) update(r *run, fn func(*Snapshot)) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != r {
		return false
	}
	g.setLocked(fn)
	return true
}

func (g *Generator) runErr(r *run) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return r.err
}

// finishError moves r to the error state with err. If r was already
// terminated, the earlier error wins.
func (g *Generator) finishError(r *run, err error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != r {
		return r.err
	}
	g.terminateLocked(err)
	return err
}

// terminateLocked ends the active run with err. The retained ebook survives
// a failed export; a failed generation never produced one.
func (g *Generator) terminateLocked(err error) {
	r := g.active
	r.err = err
	r.cancel()
	g.active = nil

	g.setLocked(func(s *Snapshot) {
		s.State = StateError
		s.Err = err.Error()
		s.Progress.Message = err.Error()
	})

	if errors.Is(err, context.Canceled) {
		g.log.Info("run canceled", "run_id", r.id, "export", r.export)
		return
	}
	g.log.Error("run failed", "run_id", r.id, "export", r.export, "error", err)
}

// setLocked mutates the snapshot and publishes it. Callers hold mu.
func (g *Generator) setLocked(fn func(*Snapshot)) {
	from := g.snap.State
	fn(&g.snap)
	g.snap.UpdatedAt = g.now()
	if from != g.snap.State {
		g.log.Debug("state transition", "run_id", g.snap.RunID, "from", from, "to", g.snap.State)
	}
	g.publishLocked()
}

// publishLocked delivers the current snapshot to every subscriber, replacing
// any snapshot still unread in its buffer.
func (g *Generator) publishLocked() {
	for _, ch := range g.subs {
		s := g.snap.clone()
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}
