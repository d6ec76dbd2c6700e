package main

import (
	"errors"
	"fmt"

	"github.com/alnah/go-ebookgen/internal/config"
)

// ErrUsage marks bad command lines: unknown flags, missing arguments.
var ErrUsage = errors.New("invalid usage")

// loadConfig builds the effective config from defaults, then the file named
// by --config or EBOOKGEN_CONFIG, then environment variables. Flags are
// merged by the caller.
func loadConfig(common commonFlags, env *envConfig) (*config.Config, error) {
	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// mergeGenerateFlags applies CLI flags to config. CLI flags take precedence.
func mergeGenerateFlags(f *generateFlags, cfg *config.Config) {
	mergeCommonFlags(f.common, cfg)
	mergeOutputFlags(f.output, f.timeout, cfg)
	mergeProviderFlags(f.provider, cfg)
	mergePageFlags(f.page, cfg)
	mergeRenderFlags(f.render, cfg)
}

// mergeServeFlags applies CLI flags to config. CLI flags take precedence.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	mergeCommonFlags(f.common, cfg)
	mergeOutputFlags(f.output, f.timeout, cfg)
	mergeProviderFlags(f.provider, cfg)
	mergePageFlags(f.page, cfg)
	mergeRenderFlags(f.render, cfg)

	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.rateLimit >= 0 {
		cfg.Server.RateLimit = f.rateLimit
	}
}

func mergeCommonFlags(f commonFlags, cfg *config.Config) {
	switch {
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}

func mergeOutputFlags(output, timeout string, cfg *config.Config) {
	if output != "" {
		cfg.Export.OutputDir = output
	}
	if timeout != "" {
		cfg.Export.Timeout = timeout
	}
}

func mergeProviderFlags(f providerFlags, cfg *config.Config) {
	if f.model != "" {
		cfg.Provider.Model = f.model
	}
	if f.maxTokens != 0 {
		cfg.Provider.MaxTokens = f.maxTokens
	}
	if f.noCache {
		cfg.Provider.Cache = false
	}
}

func mergePageFlags(f pageFlags, cfg *config.Config) {
	if f.size != "" {
		cfg.Export.PageSize = f.size
	}
	if f.orientation != "" {
		cfg.Export.Orientation = f.orientation
	}
	if f.margin != 0 {
		cfg.Export.Margin = f.margin
	}
	if f.scale != 0 {
		cfg.Export.Scale = f.scale
	}
	if f.background != "" {
		cfg.Export.Background = f.background
	}
	if f.noPageNumbers {
		cfg.Export.PageNumbers = false
	}
}

func mergeRenderFlags(f renderFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Render.Style = f.style
	}
	if f.renderer != "" {
		cfg.Render.Engine = f.renderer
	}
}
