package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-ebookgen"
	"github.com/alnah/go-ebookgen/internal/provider"
)

const outlineJSON = `{"title":"Bread 101","chapters":[` +
	`{"title":"Flour and Water","sections":["Protein","Hydration"]},` +
	`{"title":"Kneading","sections":["Gluten"]}]}`

// scriptedMessenger answers outline prompts with outline and every other
// prompt with chapter.
type scriptedMessenger struct {
	mu      sync.Mutex
	outline string
	chapter string
	err     error
	prompts []string
}

func (m *scriptedMessenger) Send(_ context.Context, _, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, user)
	if m.err != nil {
		return "", m.err
	}
	if strings.HasPrefix(user, "Plan an ebook about:") {
		return m.outline, nil
	}
	return m.chapter, nil
}

// recordingExporter captures the exported document instead of printing it.
type recordingExporter struct {
	mu       sync.Mutex
	settings ebookgen.ExportSettings
	htmlOnly bool
	doc      *ebookgen.Document
	err      error
	closed   bool
}

func (e *recordingExporter) Export(_ context.Context, doc *ebookgen.Document) (*ebookgen.ExportResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	e.doc = doc
	return &ebookgen.ExportResult{Path: e.settings.OutputDir + "/" + doc.Title + ".pdf", Bytes: len(doc.HTML)}, nil
}

func (e *recordingExporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// testEnv is an Environment with captured output, a fixed environment and
// fake collaborators.
type testEnv struct {
	*Environment
	stdout    *syncBuffer
	stderr    *syncBuffer
	messenger *scriptedMessenger
	exporter  *recordingExporter
	gotConfig provider.AnthropicConfig
}

func newTestEnv(vars map[string]string) *testEnv {
	te := &testEnv{
		stdout:    &syncBuffer{},
		stderr:    &syncBuffer{},
		messenger: &scriptedMessenger{outline: outlineJSON, chapter: "## Protein\n\nStrong flour has **more** protein."},
		exporter:  &recordingExporter{},
	}
	if vars == nil {
		vars = map[string]string{}
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewMessenger: func(cfg provider.AnthropicConfig) (provider.Messenger, error) {
			te.gotConfig = cfg
			if cfg.APIKey == "" {
				return nil, errors.Join(ebookgen.ErrProviderUnavailable, errors.New("no key"))
			}
			return te.messenger, nil
		},
		NewExporter: func(s ebookgen.ExportSettings, htmlOnly bool) (ebookgen.Exporter, error) {
			if err := s.Validate(); err != nil {
				return nil, err
			}
			te.exporter.settings = s
			te.exporter.htmlOnly = htmlOnly
			return te.exporter, nil
		},
	}
	return te
}

// syncBuffer is a bytes.Buffer safe for the progress printer and the logger
// writing concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}
