package main

import (
	"io"
	"log/slog"

	"github.com/alnah/go-ebookgen"
	"github.com/alnah/go-ebookgen/internal/config"
	"github.com/alnah/go-ebookgen/internal/logger"
	"github.com/alnah/go-ebookgen/internal/provider"
)

// app bundles the generator with the exporter it owns.
type app struct {
	gen      *ebookgen.Generator
	exporter ebookgen.Exporter
	log      *slog.Logger
}

// close releases the exporter's browser, if any.
func (a *app) close() {
	if err := a.exporter.Close(); err != nil {
		a.log.Warn("closing exporter", "error", err)
	}
}

// buildApp wires provider, document builder, exporter and generator from cfg.
func buildApp(cfg *config.Config, env *Environment, log *slog.Logger, htmlOnly bool) (*app, error) {
	p, err := buildProvider(cfg, env, log)
	if err != nil {
		return nil, err
	}

	builder, err := buildDocumentBuilder(cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := env.NewExporter(exportSettings(cfg), htmlOnly)
	if err != nil {
		return nil, err
	}

	gen, err := ebookgen.NewGenerator(p,
		ebookgen.WithExporter(exporter),
		ebookgen.WithDocumentBuilder(builder),
		ebookgen.WithLogger(log),
		ebookgen.WithExportDelay(cfg.Export.DelayDuration()),
		ebookgen.WithClock(env.Now),
	)
	if err != nil {
		_ = exporter.Close()
		return nil, err
	}

	return &app{gen: gen, exporter: exporter, log: log}, nil
}

func buildLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	return logger.New(w, cfg.Log.Level, cfg.Log.Format)
}

// buildProvider returns the Anthropic-backed provider, memoised unless the
// cache is disabled.
func buildProvider(cfg *config.Config, env *Environment, log *slog.Logger) (ebookgen.ContentProvider, error) {
	m, err := env.NewMessenger(provider.AnthropicConfig{
		APIKey:         env.Getenv(provider.APIKeyEnv),
		Model:          cfg.Provider.Model,
		MaxTokens:      cfg.Provider.MaxTokens,
		Temperature:    cfg.Provider.Temperature,
		RequestTimeout: cfg.Provider.RequestTimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}

	var p ebookgen.ContentProvider = provider.New(m, provider.WithLogger(log))
	if cfg.Provider.Cache {
		p = provider.NewCachingProvider(p, cfg.Provider.CacheTTLDuration())
	}
	return p, nil
}

func buildDocumentBuilder(cfg *config.Config) (*ebookgen.DocumentBuilder, error) {
	opts := []ebookgen.DocumentOption{
		ebookgen.WithRenderEngine(cfg.Render.Engine),
		ebookgen.WithAssetPath(cfg.Assets.BasePath),
	}
	if cfg.Render.Style != "" {
		opts = append(opts, ebookgen.WithStyle(cfg.Render.Style))
	}
	if cfg.Render.Lang != "" {
		opts = append(opts, ebookgen.WithLang(cfg.Render.Lang))
	}
	switch {
	case !cfg.Render.TOC:
		opts = append(opts, ebookgen.WithoutTOC())
	case cfg.Render.TOCTitle != "":
		opts = append(opts, ebookgen.WithTOC(cfg.Render.TOCTitle))
	}
	return ebookgen.NewDocumentBuilder(opts...)
}

// exportSettings maps config to exporter settings. Zero margin and scale
// fall back to the exporter defaults.
func exportSettings(cfg *config.Config) ebookgen.ExportSettings {
	s := ebookgen.DefaultExportSettings()
	if cfg.Export.PageSize != "" {
		s.PageSize = cfg.Export.PageSize
	}
	if cfg.Export.Orientation != "" {
		s.Orientation = cfg.Export.Orientation
	}
	if cfg.Export.Margin != 0 {
		s.Margin = cfg.Export.Margin
	}
	if cfg.Export.Scale != 0 {
		s.Scale = cfg.Export.Scale
	}
	if cfg.Export.OutputDir != "" {
		s.OutputDir = cfg.Export.OutputDir
	}
	if d := cfg.Export.TimeoutDuration(); d > 0 {
		s.Timeout = d
	}
	s.Background = cfg.Export.Background
	s.PageNumbers = cfg.Export.PageNumbers
	return s
}
