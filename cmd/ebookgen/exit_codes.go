package main

import (
	"errors"
	"os"

	"github.com/alnah/go-ebookgen"
	"github.com/alnah/go-ebookgen/internal/config"
	"github.com/alnah/go-ebookgen/internal/logger"
	"github.com/alnah/go-ebookgen/internal/markdown"
)

// Exit codes for the ebookgen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful run
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitBrowser  = 4 // Browser/Chrome errors
	ExitProvider = 5 // Model unreachable, unauthorized, or no usable outline
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Provider errors (exit 5)
	if errors.Is(err, ebookgen.ErrProviderUnavailable) ||
		errors.Is(err, ebookgen.ErrOutline) {
		return ExitProvider
	}

	// Browser errors (exit 4)
	if errors.Is(err, ebookgen.ErrBrowserConnect) ||
		errors.Is(err, ebookgen.ErrPageCreate) ||
		errors.Is(err, ebookgen.ErrPageLoad) ||
		errors.Is(err, ebookgen.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ebookgen.ErrWritePDF) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logger.ErrInvalidLevel) ||
		errors.Is(err, logger.ErrInvalidFormat) ||
		errors.Is(err, markdown.ErrUnknownEngine) ||
		errors.Is(err, ebookgen.ErrEmptyTopic) ||
		errors.Is(err, ebookgen.ErrInvalidPageSize) ||
		errors.Is(err, ebookgen.ErrInvalidOrientation) ||
		errors.Is(err, ebookgen.ErrInvalidMargin) ||
		errors.Is(err, ebookgen.ErrInvalidScale) ||
		errors.Is(err, ebookgen.ErrInvalidBackground) ||
		errors.Is(err, ebookgen.ErrStyleNotFound) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
