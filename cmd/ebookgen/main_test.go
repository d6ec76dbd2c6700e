package main

// Notes:
// - runMain is tested through its exit code and captured output; commands
//   that would reach the network or Chrome use the fakes from
//   helpers_test.go.

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alnah/go-ebookgen"
	"github.com/alnah/go-ebookgen/internal/config"
	"github.com/alnah/go-ebookgen/internal/provider"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		vars         map[string]string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage",
			args:         []string{"ebookgen"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: ebookgen"},
		},
		{
			name:         "version",
			args:         []string{"ebookgen", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"ebookgen dev"},
		},
		{
			name:         "help",
			args:         []string{"ebookgen", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: ebookgen", "Commands:", "generate", "serve"},
		},
		{
			name:         "help generate",
			args:         []string{"ebookgen", "help", "generate"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: ebookgen generate", "EBOOKGEN_MODEL"},
		},
		{
			name:         "help serve",
			args:         []string{"ebookgen", "help", "serve"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: ebookgen serve", "--rate-limit"},
		},
		{
			name:         "help unknown command",
			args:         []string{"ebookgen", "help", "publish"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: publish"},
		},
		{
			name:         "unknown command",
			args:         []string{"ebookgen", "publish"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: publish"},
		},
		{
			name:         "generate without topic",
			args:         []string{"ebookgen", "generate"},
			vars:         map[string]string{provider.APIKeyEnv: "sk-test"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"topic cannot be empty"},
		},
		{
			name:         "generate without api key adds hint",
			args:         []string{"ebookgen", "generate", "bread"},
			wantCode:     ExitProvider,
			wantInStderr: []string{"hint:", "ANTHROPIC_API_KEY"},
		},
		{
			name:         "generate success prints path",
			args:         []string{"ebookgen", "generate", "-q", "bread"},
			vars:         map[string]string{provider.APIKeyEnv: "sk-test"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Bread 101.pdf"},
		},
		{
			name:         "unknown env var warns",
			args:         []string{"ebookgen", "generate", "-q", "bread"},
			vars:         map[string]string{provider.APIKeyEnv: "sk-test", "EBOOKGEN_MODLE": "x"},
			wantCode:     ExitSuccess,
			wantInStderr: []string{"unknown environment variable EBOOKGEN_MODLE"},
		},
		{
			name:     "serve rejects arguments",
			args:     []string{"ebookgen", "serve", "extra"},
			wantCode: ExitUsage,
		},
		{
			name:         "completion unsupported shell",
			args:         []string{"ebookgen", "completion", "tcsh"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unsupported shell"},
		},
		{
			name:         "missing config adds hint",
			args:         []string{"ebookgen", "config", "-c", "no-such-config"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"config file not found", "hint: use --config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(tt.vars)
			code := runMain(tt.args, te.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d\nstderr: %s", code, tt.wantCode, te.stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(te.stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, te.stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(te.stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, te.stderr.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable suffixes
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", &config.NotFoundError{Name: "x", Paths: []string{"x.yaml"}}, "--config"},
		{"style not found", fmt.Errorf("%w: %q", ebookgen.ErrStyleNotFound, "nope"), "available:"},
		{"write pdf", ebookgen.ErrWritePDF, "output directory"},
		{"unknown", errors.New("other"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
