package audit2pdf

import (
	"context"
	"errors"

	"github.com/alnah/go-audit2pdf/internal/browser"
	"github.com/alnah/go-audit2pdf/internal/hints"
	"github.com/alnah/go-audit2pdf/internal/layout"
	"github.com/alnah/go-audit2pdf/internal/report"
)

// Sentinel errors for export operations.
var (
	// ErrCapture means the rendering surface failed, the report region
	// measured empty, or the view could not be prepared for capture.
	ErrCapture = errors.New("capture failed")
	// ErrSerialization means the output document could not be assembled.
	ErrSerialization = errors.New("serialization failed")
	// ErrRestore is logged, never returned: theme or visibility could not be
	// put back after an export.
	ErrRestore = errors.New("restore failed")

	ErrExportInProgress = errors.New("an export is already in progress")
	ErrViewDetached     = errors.New("report view detached during export")
	ErrEmptyDomain      = errors.New("audited domain is empty")
	ErrNilView          = errors.New("nil report view")

	// Logo validation errors.
	ErrAssetTooLarge   = errors.New("logo exceeds size limit")
	ErrUnsupportedLogo = errors.New("unsupported logo format")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// Errors shared with internal packages, re-exported for errors.Is.
var (
	ErrInvalidPageFormat = layout.ErrInvalidPageFormat
	ErrBrowserConnect    = browser.ErrBrowserConnect
	ErrPageLoad          = browser.ErrPageLoad
	ErrInvalidReport     = report.ErrInvalidReport
)

// UserMessage returns the single failure text shown to an end user for err,
// or "" for nil. Capture and serialization failures suggest the manual
// fallback since retrying the same content fails the same way.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAssetTooLarge):
		return "The logo file is too large." + hints.ForLogo(logoLimit(err))
	case errors.Is(err, ErrUnsupportedLogo):
		return "The logo file is not a PNG or JPEG image." + hints.ForLogo(logoLimit(err))
	case errors.Is(err, ErrExportInProgress):
		return "An export is already running. Wait for it to finish and try again."
	case errors.Is(err, ErrViewDetached):
		return "The report was closed before the export finished. No file was produced."
	case errors.Is(err, ErrInvalidReport):
		return "The audit report is incomplete or malformed."
	case errors.Is(err, ErrEmptyDomain):
		return "The report has no audited domain to name the file after."
	case errors.Is(err, context.Canceled):
		return "The export was cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The export timed out." + hints.ForTimeout()
	case errors.Is(err, ErrBrowserConnect):
		return "The export browser could not be started." + hints.ForBrowserConnect()
	default:
		return "The report could not be exported." + hints.ForManualExport()
	}
}

// logoLimit returns the ceiling a logo was rejected against, or 0 when err
// does not carry one.
func logoLimit(err error) int64 {
	var le *LogoError
	if errors.As(err, &le) {
		return le.Limit
	}
	return 0
}
