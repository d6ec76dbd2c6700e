package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-ebookgen"
	"github.com/alnah/go-ebookgen/internal/provider"
)

// Environment holds injectable dependencies for testability.
// Provider and exporter construction are hooks so commands run without
// network or Chrome under test.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	NewMessenger func(provider.AnthropicConfig) (provider.Messenger, error)
	NewExporter  func(settings ebookgen.ExportSettings, htmlOnly bool) (ebookgen.Exporter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		Environ:      os.Environ,
		NewMessenger: newAnthropicMessenger,
		NewExporter:  newExporter,
	}
}

func newAnthropicMessenger(cfg provider.AnthropicConfig) (provider.Messenger, error) {
	m, err := provider.NewAnthropicMessenger(cfg)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// newExporter writes PDFs through Chrome, or standalone HTML when htmlOnly
// is set.
func newExporter(settings ebookgen.ExportSettings, htmlOnly bool) (ebookgen.Exporter, error) {
	if htmlOnly {
		return ebookgen.NewHTMLExporter(settings.OutputDir), nil
	}
	e, err := ebookgen.NewPDFExporter(settings)
	if err != nil {
		return nil, err
	}
	return e, nil
}
