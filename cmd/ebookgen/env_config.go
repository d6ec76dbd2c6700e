package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-ebookgen/internal/config"
)

// envPrefix marks the variables read by loadEnvConfig.
const envPrefix = "EBOOKGEN_"

// envConfig holds configuration values from EBOOKGEN_* environment variables.
// Priority: CLI flags > env vars > config file > defaults.
type envConfig struct {
	ConfigPath string        // EBOOKGEN_CONFIG: config file path
	Model      string        // EBOOKGEN_MODEL: model name
	OutputDir  string        // EBOOKGEN_OUTPUT_DIR: export directory
	Timeout    time.Duration // EBOOKGEN_TIMEOUT: export timeout
	PageSize   string        // EBOOKGEN_PAGE_SIZE: a4, letter, legal
	Style      string        // EBOOKGEN_STYLE: style name or path
	LogLevel   string        // EBOOKGEN_LOG_LEVEL: debug, info, warn, error
	Addr       string        // EBOOKGEN_ADDR: serve listen address
}

// knownEnvVars lists valid EBOOKGEN_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"EBOOKGEN_CONFIG":     true,
	"EBOOKGEN_MODEL":      true,
	"EBOOKGEN_OUTPUT_DIR": true,
	"EBOOKGEN_TIMEOUT":    true,
	"EBOOKGEN_PAGE_SIZE":  true,
	"EBOOKGEN_STYLE":      true,
	"EBOOKGEN_LOG_LEVEL":  true,
	"EBOOKGEN_ADDR":       true,
	"EBOOKGEN_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("EBOOKGEN_CONFIG"),
		Model:      getenv("EBOOKGEN_MODEL"),
		OutputDir:  getenv("EBOOKGEN_OUTPUT_DIR"),
		PageSize:   getenv("EBOOKGEN_PAGE_SIZE"),
		Style:      getenv("EBOOKGEN_STYLE"),
		LogLevel:   getenv("EBOOKGEN_LOG_LEVEL"),
		Addr:       getenv("EBOOKGEN_ADDR"),
	}

	// Invalid or non-positive durations are ignored.
	if timeout := getenv("EBOOKGEN_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized EBOOKGEN_* variable.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides file and default values with set variables.
// CLI flags are applied afterwards and win.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Model != "" {
		cfg.Provider.Model = env.Model
	}
	if env.OutputDir != "" {
		cfg.Export.OutputDir = env.OutputDir
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout.String()
	}
	if env.PageSize != "" {
		cfg.Export.PageSize = env.PageSize
	}
	if env.Style != "" {
		cfg.Render.Style = env.Style
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
}
