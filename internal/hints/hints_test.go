package hints

// ForBrowserConnect and ForProvider tests use t.Setenv and swap IsInContainer,
// so they do not run in parallel.

import (
	"strings"
	"testing"
)

func clearCI(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(key, "")
	}
}

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		ci          string
		container   bool
		noSandbox   string
		browserBin  string
		contains    []string
		notContains []string
	}{
		{
			name:     "ci suggests sandbox and bin",
			ci:       "true",
			contains: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN"},
		},
		{
			name:      "docker suggests sandbox",
			container: true,
			contains:  []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "sandbox already disabled",
			container:   true,
			noSandbox:   "1",
			contains:    []string{"ROD_BROWSER_BIN"},
			notContains: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "everything configured",
			ci:          "true",
			noSandbox:   "1",
			browserBin:  "/usr/bin/chromium",
			notContains: []string{"hint:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCI(t)
			stubContainer(t, tt.container)
			t.Setenv("CI", tt.ci)
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect()
			for _, want := range tt.contains {
				if !strings.Contains(hint, want) {
					t.Errorf("hint %q missing %q", hint, want)
				}
			}
			for _, bad := range tt.notContains {
				if strings.Contains(hint, bad) {
					t.Errorf("hint %q should not contain %q", hint, bad)
				}
			}
		})
	}
}

func TestForProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if hint := ForProvider(); !strings.Contains(hint, ".env") {
		t.Errorf("missing key hint = %q", hint)
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	if hint := ForProvider(); !strings.Contains(hint, "valid") {
		t.Errorf("rejected key hint = %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{name: "no paths", paths: nil, contains: "--config"},
		{
			name:     "suggests user config",
			paths:    []string{"./book.yaml", "/home/u/.config/go-ebookgen/book.yaml"},
			contains: "or create /home/u/.config/go-ebookgen/book.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("ForConfigNotFound() = %q, want containing %q", hint, tt.contains)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
	if got := ForStyleNotFound([]string{"default", "classic"}); !strings.Contains(got, "default, classic") {
		t.Errorf("ForStyleNotFound() = %q", got)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	for _, h := range []string{ForTimeout(), ForOutputDirectory(), ForConfigNotFound(nil)} {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
