package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Provider.RequestTimeoutDuration() != 2*time.Minute {
		t.Errorf("request timeout = %v", cfg.Provider.RequestTimeoutDuration())
	}
	if cfg.Provider.CacheTTLDuration() != 24*time.Hour {
		t.Errorf("cache TTL = %v", cfg.Provider.CacheTTLDuration())
	}
	if cfg.Export.DelayDuration() != 0 {
		t.Errorf("delay = %v, want 0", cfg.Export.DelayDuration())
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		field   string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "empty model", mutate: func(c *Config) { c.Provider.Model = "" }, wantErr: ErrInvalidValue, field: "provider.model"},
		{name: "model too long", mutate: func(c *Config) { c.Provider.Model = strings.Repeat("m", MaxModelLength+1) }, wantErr: ErrFieldTooLong, field: "provider.model"},
		{name: "zero max tokens", mutate: func(c *Config) { c.Provider.MaxTokens = 0 }, wantErr: ErrInvalidValue, field: "provider.maxTokens"},
		{name: "temperature above one", mutate: func(c *Config) { c.Provider.Temperature = 1.5 }, wantErr: ErrInvalidValue, field: "provider.temperature"},
		{name: "goldmark engine", mutate: func(c *Config) { c.Render.Engine = "goldmark" }},
		{name: "unknown engine", mutate: func(c *Config) { c.Render.Engine = "pandoc" }, wantErr: ErrInvalidValue, field: "render.engine"},
		{name: "a4 landscape", mutate: func(c *Config) { c.Export.PageSize = "A4"; c.Export.Orientation = "landscape" }},
		{name: "bad page size", mutate: func(c *Config) { c.Export.PageSize = "tabloid" }, wantErr: ErrInvalidValue, field: "export.pageSize"},
		{name: "bad orientation", mutate: func(c *Config) { c.Export.Orientation = "sideways" }, wantErr: ErrInvalidValue, field: "export.orientation"},
		{name: "margin too small", mutate: func(c *Config) { c.Export.Margin = 0.1 }, wantErr: ErrInvalidValue, field: "export.margin"},
		{name: "margin too large", mutate: func(c *Config) { c.Export.Margin = 3.5 }, wantErr: ErrInvalidValue, field: "export.margin"},
		{name: "margin at bounds", mutate: func(c *Config) { c.Export.Margin = MaxMargin }},
		{name: "scale too large", mutate: func(c *Config) { c.Export.Scale = 2.5 }, wantErr: ErrInvalidValue, field: "export.scale"},
		{name: "short hex background", mutate: func(c *Config) { c.Export.Background = "#fff" }},
		{name: "named background", mutate: func(c *Config) { c.Export.Background = "white" }, wantErr: ErrInvalidValue, field: "export.background"},
		{name: "negative rate limit", mutate: func(c *Config) { c.Server.RateLimit = -1 }, wantErr: ErrInvalidValue, field: "server.rateLimit"},
		{name: "bad duration", mutate: func(c *Config) { c.Export.Timeout = "soon" }, wantErr: ErrInvalidValue, field: "export.timeout"},
		{name: "negative duration", mutate: func(c *Config) { c.Export.Delay = "-1s" }, wantErr: ErrInvalidValue, field: "export.delay"},
		{name: "toc title too long", mutate: func(c *Config) { c.Render.TOCTitle = strings.Repeat("t", MaxTitleLength+1) }, wantErr: ErrFieldTooLong, field: "render.tocTitle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name field %q", err, tt.field)
			}
		})
	}
}

func TestIsHexColor(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"#fff":     true,
		"#FFFFFF":  true,
		"#a1b2c3":  true,
		"":         false,
		"fff":      false,
		"#ffff":    false,
		"#gggggg":  false,
		"#1234567": false,
	}
	for in, want := range tests {
		if got := IsHexColor(in); got != want {
			t.Errorf("IsHexColor(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadConfig_Path(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("overrides keep defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, dir, "partial.yaml", `
provider:
  model: claude-3-5-haiku-latest
export:
  pageSize: a4
  background: "#fdf6e3"
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Provider.Model != "claude-3-5-haiku-latest" {
			t.Errorf("model = %q", cfg.Provider.Model)
		}
		if cfg.Export.PageSize != "a4" || cfg.Export.Background != "#fdf6e3" {
			t.Errorf("export = %+v", cfg.Export)
		}
		if cfg.Provider.MaxTokens != DefaultMaxToken || !cfg.Render.TOC || cfg.Export.Margin != 0.75 {
			t.Errorf("defaults lost: %+v", cfg)
		}
	})

	t.Run("explicit false overrides default true", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, dir, "nopages.yaml", "export:\n  pageNumbers: false\nrender:\n  toc: false\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Export.PageNumbers || cfg.Render.TOC {
			t.Errorf("false values not applied: %+v %+v", cfg.Export, cfg.Render)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, dir, "unknown.yaml", "export:\n  watermark: DRAFT\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, dir, "invalid.yaml", "export:\n  scale: 9\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, dir, "empty.yaml", "")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Provider.Model != DefaultModel {
			t.Errorf("model = %q, want default", cfg.Provider.Model)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})
}

func TestLoadConfig_EmptyName(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
	}
}

// Changes the working directory, so not parallel.
func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)

	writeConfig(t, dir, "book.yml", "render:\n  style: classic\n")

	cfg, err := LoadConfig("book")
	if err != nil {
		t.Fatalf("LoadConfig(book) error = %v", err)
	}
	if cfg.Render.Style != "classic" {
		t.Errorf("style = %q, want classic", cfg.Render.Style)
	}

	_, err = LoadConfig("absent")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("LoadConfig(absent) error = %v, want *NotFoundError", err)
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Error("NotFoundError should match ErrConfigNotFound")
	}
	if len(nf.Paths) < 2 || nf.Paths[0] != "absent.yaml" || nf.Paths[1] != "absent.yml" {
		t.Errorf("searched paths = %v", nf.Paths)
	}
}
