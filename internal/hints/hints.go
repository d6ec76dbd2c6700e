// Package hints builds the actionable "\n  hint: ..." suffixes the CLI appends
// to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ebookgen/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
// It is a variable so tests can stub it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a common CI environment variable is set.
func InCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the Chrome environment variables that usually
// fix a failed launch.
func ForBrowserConnect() string {
	var hints []string

	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForProvider explains how to supply or fix model credentials.
func ForProvider() string {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return format("set ANTHROPIC_API_KEY in the environment or in a .env file")
	}
	return format("check that ANTHROPIC_API_KEY is valid and has API access")
}

// ForTimeout suggests a longer timeout for slow generations or exports.
func ForTimeout() string {
	return format("for long ebooks, raise --timeout")
}

// ForConfigNotFound suggests --config or the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "go-ebookgen/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory is returned when the PDF directory cannot be written.
func ForOutputDirectory() string {
	return format("check the output directory exists or can be created and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
