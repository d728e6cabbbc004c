package main

import (
	"errors"
	"os"

	audit2pdf "github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/assets"
	"github.com/alnah/go-audit2pdf/internal/config"
	"github.com/alnah/go-audit2pdf/internal/dateutil"
)

// Exit codes for the audit2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every export succeeded
	ExitGeneral = 1 // Capture, serialization, or unexpected error
	ExitUsage   = 2 // Invalid flags, config, report, or logo
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, audit2pdf.ErrBrowserConnect) ||
		errors.Is(err, audit2pdf.ErrPageLoad) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, audit2pdf.ErrInvalidReport) ||
		errors.Is(err, audit2pdf.ErrEmptyDomain) ||
		errors.Is(err, audit2pdf.ErrAssetTooLarge) ||
		errors.Is(err, audit2pdf.ErrUnsupportedLogo) ||
		errors.Is(err, audit2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateSetNotFound) ||
		errors.Is(err, assets.ErrIncompleteTemplateSet) ||
		errors.Is(err, ErrInvalidWorkers) {
		return ExitUsage
	}

	return ExitGeneral
}
