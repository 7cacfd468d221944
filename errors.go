package visit2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrNilVisitData   = errors.New("visit data cannot be nil")
	ErrVisitNotFound  = errors.New("visit not found")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrWritePDF       = errors.New("failed to write PDF file")
	ErrStamp          = errors.New("PDF post-processing failed")
	ErrPublish        = errors.New("publishing PDF failed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")

	// Input validation errors.
	ErrInvalidVisitID = errors.New("invalid visit ID")
	ErrEmptyTemplate  = errors.New("template cannot be empty")
	ErrNilSource      = errors.New("visit source cannot be nil")
	ErrNilTemplates   = errors.New("template source cannot be nil")
)
