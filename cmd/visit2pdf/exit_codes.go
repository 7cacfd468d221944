package main

import (
	"errors"
	"os"

	visit2pdf "github.com/alnah/go-visit2pdf"
	"github.com/alnah/go-visit2pdf/internal/assets"
	"github.com/alnah/go-visit2pdf/internal/config"
	"github.com/alnah/go-visit2pdf/internal/dateutil"
	"github.com/alnah/go-visit2pdf/internal/publish"
	"github.com/alnah/go-visit2pdf/internal/store"
)

// Exit codes for the visit2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Report written
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied, upload
	ExitBrowser  = 4 // Browser/Chrome errors
	ExitDatabase = 5 // Connection, query, or missing visit
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Database errors (exit 5)
	if errors.Is(err, store.ErrConnect) ||
		errors.Is(err, store.ErrQuery) ||
		errors.Is(err, store.ErrClosed) ||
		errors.Is(err, visit2pdf.ErrVisitNotFound) {
		return ExitDatabase
	}

	// Browser errors (exit 4)
	if errors.Is(err, visit2pdf.ErrBrowserConnect) ||
		errors.Is(err, visit2pdf.ErrPageCreate) ||
		errors.Is(err, visit2pdf.ErrPageLoad) ||
		errors.Is(err, visit2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, visit2pdf.ErrWritePDF) ||
		errors.Is(err, visit2pdf.ErrPublish) ||
		errors.Is(err, assets.ErrAssetRead) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, store.ErrUnsupportedDriver) ||
		errors.Is(err, publish.ErrNoBucket) ||
		errors.Is(err, visit2pdf.ErrInvalidVisitID) ||
		errors.Is(err, visit2pdf.ErrInvalidPageSize) ||
		errors.Is(err, visit2pdf.ErrInvalidOrientation) ||
		errors.Is(err, visit2pdf.ErrEmptyTemplate) ||
		errors.Is(err, dateutil.ErrInvalidLocale) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, ErrNoVisitID) ||
		errors.Is(err, ErrInvalidVisitArg) ||
		errors.Is(err, ErrTooManyArgs) ||
		errors.Is(err, ErrInvalidEnv) {
		return ExitUsage
	}

	return ExitGeneral
}
