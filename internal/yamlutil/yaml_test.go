package yamlutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-ebookgen/internal/yamlutil"
)

type providerSection struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		errText string
	}{
		{name: "valid", data: []byte("model: m\nmax_tokens: 4096"), dest: &providerSection{}},
		{name: "nil data", data: nil, dest: &providerSection{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("model: m"), dest: nil, wantErr: yamlutil.ErrNilDestination},
		{name: "unknown field", data: []byte("model: m\ntemperature_x: 1"), dest: &providerSection{}, errText: "yamlutil:"},
		{name: "invalid syntax", data: []byte("model: [unclosed"), dest: &providerSection{}, errText: "yamlutil:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
			case tt.errText != "":
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Fatalf("UnmarshalStrict() error = %v, want containing %q", err, tt.errText)
				}
			default:
				if err != nil {
					t.Fatalf("UnmarshalStrict() unexpected error: %v", err)
				}
				got := tt.dest.(*providerSection)
				if got.Model != "m" || got.MaxTokens != 4096 {
					t.Errorf("decoded %+v", got)
				}
			}
		})
	}
}

func TestUnmarshalStrict_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("model: " + strings.Repeat("x", yamlutil.MaxInputSize))
	err := yamlutil.UnmarshalStrict(data, &providerSection{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge, got %v", err)
	}
}

func TestDecodeFileStrict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("model: claude\nmax_tokens: 10\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var got providerSection
	if err := yamlutil.DecodeFileStrict(path, &got); err != nil {
		t.Fatalf("DecodeFileStrict() error: %v", err)
	}
	if got.Model != "claude" || got.MaxTokens != 10 {
		t.Errorf("decoded %+v", got)
	}

	if err := yamlutil.DecodeFileStrict(filepath.Join(dir, "missing.yaml"), &got); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(providerSection{Model: "m", MaxTokens: 1})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(out), "max_tokens: 1") {
		t.Errorf("Marshal() = %q", out)
	}
}
