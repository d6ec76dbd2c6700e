// Package config loads ebookgen settings from YAML files.
//
// Files are decoded strictly over DefaultConfig, so omitted keys keep their
// defaults and unknown keys are rejected. Environment variables and CLI
// flags are layered on top by cmd/ebookgen.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-ebookgen/internal/fileutil"
	"github.com/alnah/go-ebookgen/internal/yamlutil"
)

// AppDir is the directory under os.UserConfigDir searched for named configs.
const AppDir = "go-ebookgen"

var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxModelLength       = 100
	MaxPathLength        = 4096
	MaxNameLength        = 50
	MaxPageSizeLength    = 10
	MaxOrientationLength = 10
	MaxColorLength       = 7 // "#rrggbb"
	MaxTitleLength       = 100
	MaxAddrLength        = 255
	MaxDurationLength    = 20
	MaxLangLength        = 35 // BCP 47
)

// Numeric bounds shared with the exporter.
const (
	MinMargin       = 0.25
	MaxMargin       = 3.0
	MinScale        = 0.1
	MaxScale        = 2.0
	MaxTokensLimit  = 64000
	MaxTemperature  = 1.0
	MaxRateLimit    = 10000
	DefaultModel    = "claude-3-5-sonnet-latest"
	DefaultMaxToken = 4096
)

// Config holds all settings for generation, rendering, export and hosting.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Render   RenderConfig   `yaml:"render"`
	Export   ExportConfig   `yaml:"export"`
	Assets   AssetsConfig   `yaml:"assets"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// ProviderConfig configures the hosted model.
type ProviderConfig struct {
	Model          string  `yaml:"model"`
	MaxTokens      int64   `yaml:"maxTokens"`
	Temperature    float64 `yaml:"temperature"`
	RequestTimeout string  `yaml:"requestTimeout"` // per call, e.g. "2m"
	Cache          bool    `yaml:"cache"`
	CacheTTL       string  `yaml:"cacheTTL"`
}

// RenderConfig configures chapter rendering and document layout.
type RenderConfig struct {
	Engine   string `yaml:"engine"` // "subset" or "goldmark"
	Style    string `yaml:"style"`  // style name or path to a .css file
	TOC      bool   `yaml:"toc"`
	TOCTitle string `yaml:"tocTitle"`
	Lang     string `yaml:"lang"`
}

// ExportConfig configures PDF output.
type ExportConfig struct {
	OutputDir   string  `yaml:"outputDir"`
	PageSize    string  `yaml:"pageSize"`    // letter, a4, legal
	Orientation string  `yaml:"orientation"` // portrait, landscape
	Margin      float64 `yaml:"margin"`      // inches
	Scale       float64 `yaml:"scale"`
	Background  string  `yaml:"background"` // #rgb or #rrggbb, empty for none
	PageNumbers bool    `yaml:"pageNumbers"`
	Timeout     string  `yaml:"timeout"`
	Delay       string  `yaml:"delay"` // pause before export starts
}

// AssetsConfig points at a directory overriding embedded styles/templates.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"`
}

// ServerConfig configures the web host.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	RateLimit int    `yaml:"rateLimit"` // generate requests per minute per IP, 0 disables
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:          DefaultModel,
			MaxTokens:      DefaultMaxToken,
			Temperature:    0.7,
			RequestTimeout: "2m",
			Cache:          true,
			CacheTTL:       "24h",
		},
		Render: RenderConfig{
			Engine:   "subset",
			Style:    "default",
			TOC:      true,
			TOCTitle: "Contents",
			Lang:     "en",
		},
		Export: ExportConfig{
			OutputDir:   ".",
			PageSize:    "letter",
			Orientation: "portrait",
			Margin:      0.75,
			Scale:       1.0,
			PageNumbers: true,
			Timeout:     "2m",
			Delay:       "0s",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			RateLimit: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks lengths, enumerations and ranges. LoadConfig calls it;
// callers that build or override a Config call it again after merging.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"provider.model", c.Provider.Model, MaxModelLength},
		{"provider.requestTimeout", c.Provider.RequestTimeout, MaxDurationLength},
		{"provider.cacheTTL", c.Provider.CacheTTL, MaxDurationLength},
		{"render.engine", c.Render.Engine, MaxNameLength},
		{"render.style", c.Render.Style, MaxPathLength},
		{"render.tocTitle", c.Render.TOCTitle, MaxTitleLength},
		{"render.lang", c.Render.Lang, MaxLangLength},
		{"export.outputDir", c.Export.OutputDir, MaxPathLength},
		{"export.pageSize", c.Export.PageSize, MaxPageSizeLength},
		{"export.orientation", c.Export.Orientation, MaxOrientationLength},
		{"export.background", c.Export.Background, MaxColorLength},
		{"export.timeout", c.Export.Timeout, MaxDurationLength},
		{"export.delay", c.Export.Delay, MaxDurationLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Provider.Model == "" {
		return invalid("provider.model", "must not be empty")
	}
	if c.Provider.MaxTokens < 1 || c.Provider.MaxTokens > MaxTokensLimit {
		return invalid("provider.maxTokens", fmt.Sprintf("must be between 1 and %d, got %d", MaxTokensLimit, c.Provider.MaxTokens))
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > MaxTemperature {
		return invalid("provider.temperature", fmt.Sprintf("must be between 0 and %.1f, got %.2f", MaxTemperature, c.Provider.Temperature))
	}

	switch strings.ToLower(c.Render.Engine) {
	case "", "subset", "goldmark":
	default:
		return invalid("render.engine", fmt.Sprintf("%q (must be subset or goldmark)", c.Render.Engine))
	}

	switch strings.ToLower(c.Export.PageSize) {
	case "", "letter", "a4", "legal":
	default:
		return invalid("export.pageSize", fmt.Sprintf("%q (must be letter, a4, or legal)", c.Export.PageSize))
	}
	switch strings.ToLower(c.Export.Orientation) {
	case "", "portrait", "landscape":
	default:
		return invalid("export.orientation", fmt.Sprintf("%q (must be portrait or landscape)", c.Export.Orientation))
	}
	if c.Export.Margin != 0 && (c.Export.Margin < MinMargin || c.Export.Margin > MaxMargin) {
		return invalid("export.margin", fmt.Sprintf("must be between %.2f and %.1f inches, got %.2f", MinMargin, MaxMargin, c.Export.Margin))
	}
	if c.Export.Scale != 0 && (c.Export.Scale < MinScale || c.Export.Scale > MaxScale) {
		return invalid("export.scale", fmt.Sprintf("must be between %.1f and %.1f, got %.2f", MinScale, MaxScale, c.Export.Scale))
	}
	if c.Export.Background != "" && !IsHexColor(c.Export.Background) {
		return invalid("export.background", fmt.Sprintf("%q (must be #rgb or #rrggbb)", c.Export.Background))
	}

	if c.Server.RateLimit < 0 || c.Server.RateLimit > MaxRateLimit {
		return invalid("server.rateLimit", fmt.Sprintf("must be between 0 and %d, got %d", MaxRateLimit, c.Server.RateLimit))
	}

	for _, d := range []struct{ field, value string }{
		{"provider.requestTimeout", c.Provider.RequestTimeout},
		{"provider.cacheTTL", c.Provider.CacheTTL},
		{"export.timeout", c.Export.Timeout},
		{"export.delay", c.Export.Delay},
	} {
		if _, err := parseDuration(d.value); err != nil {
			return invalid(d.field, err.Error())
		}
	}

	return nil
}

// RequestTimeoutDuration returns the per-call provider timeout, 0 when unset.
func (p ProviderConfig) RequestTimeoutDuration() time.Duration {
	d, _ := parseDuration(p.RequestTimeout)
	return d
}

// CacheTTLDuration returns the provider cache lifetime, 0 when unset.
func (p ProviderConfig) CacheTTLDuration() time.Duration {
	d, _ := parseDuration(p.CacheTTL)
	return d
}

// TimeoutDuration returns the export timeout, 0 when unset.
func (e ExportConfig) TimeoutDuration() time.Duration {
	d, _ := parseDuration(e.Timeout)
	return d
}

// DelayDuration returns the pause before export, 0 when unset.
func (e ExportConfig) DelayDuration() time.Duration {
	d, _ := parseDuration(e.Delay)
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", s)
	}
	return d, nil
}

// IsHexColor reports whether s is #rgb or #rrggbb.
func IsHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, field, msg)
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// NotFoundError lists every location searched for a named config.
type NotFoundError struct {
	Name  string
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Paths, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// LoadConfig loads a config from a path (anything with a separator) or from
// a bare name searched as name.yaml/name.yml in the working directory, then
// in os.UserConfigDir()/go-ebookgen. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFileStrict(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Name: nameOrPath, Paths: []string{configPath}}
		}
		if errors.Is(err, yamlutil.ErrNilData) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		local := name + ext
		if fileutil.FileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if userDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userDir, AppDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Paths: tried}
}
