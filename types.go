package visit2pdf

import (
	"fmt"
	"strings"
	"time"
)

// Visit is the header record of a site visit.
type Visit struct {
	ProjectTitle  string    `bun:"ProjectTitle"`
	ProjectOU     string    `bun:"ProjectOU"`
	CreatedByName string    `bun:"CreatedByName"`
	CreatedOn     time.Time `bun:"CreatedOn"`
}

// Observation is one finding recorded during a visit.
type Observation struct {
	Type          string `bun:"Type"`
	Category      string `bun:"Category"`
	Title         string `bun:"Title"`
	Description   string `bun:"Description"`
	CreatedByName string `bun:"CreatedByName"`
}

// Visitor is a person who attended the visit.
type Visitor struct {
	Name  string `bun:"VisitorName"`
	Title string `bun:"VisitorTitle"`
}

// Representative is a site or client representative present at the visit.
// Fetched with the rest of the visit but not consumed by any placeholder.
type Representative struct {
	Name  string `bun:"RepName"`
	Title string `bun:"RepTitle"`
}

// VisitData holds the four row sets fetched for one visit.
// Slices keep the order delivered by the database.
type VisitData struct {
	VisitID         int64
	Visit           *Visit
	Observations    []Observation
	Visitors        []Visitor
	Representatives []Representative
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// PageSettings configures PDF page dimensions.
// Margins are left to the browser default.
type PageSettings struct {
	Size        string // "a4", "letter", "legal"
	Orientation string // "portrait", "landscape"
}

// DefaultPageSettings returns A4 portrait.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Empty fields fall back to defaults.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if p.Size != "" && !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if p.Orientation != "" && !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// pageDimensions returns paper width and height in inches.
// Unknown or empty values resolve to A4 portrait.
func pageDimensions(p *PageSettings) (width, height float64) {
	width, height = a4WidthInches, a4HeightInches
	if p == nil {
		return width, height
	}

	switch strings.ToLower(p.Size) {
	case PageSizeLetter:
		width, height = letterWidthInches, letterHeightInches
	case PageSizeLegal:
		width, height = legalWidthInches, legalHeightInches
	}

	if strings.ToLower(p.Orientation) == OrientationLandscape {
		width, height = height, width
	}
	return width, height
}

// Paper dimensions in inches.
const (
	a4WidthInches      = 8.27
	a4HeightInches     = 11.69
	letterWidthInches  = 8.5
	letterHeightInches = 11
	legalWidthInches   = 8.5
	legalHeightInches  = 14
)
