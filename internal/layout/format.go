// Package layout holds the pure page geometry of an export: the fixed page
// format, the slicing of a captured bitmap into pages, and the placement of
// branding overlays.
//
// Pagination and overlay placement read the same PageFormat bands, so the
// content box handed to the paginator never intersects the header or footer
// boxes handed to the serializer.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidPageFormat indicates a page format that leaves no room for content.
var ErrInvalidPageFormat = errors.New("invalid page format")

// pxEpsilon absorbs float noise before flooring pixel heights
// (e.g. 999.9999999 must become 1000, not 999).
const pxEpsilon = 1e-6

// PageFormat is the fixed physical page targeted by an export, in millimeters.
//
// Vertically a page is split into bands:
//
//	MarginMm  | HeaderMm | content | FooterMm | MarginMm
//
// The header and footer bands are reserved for branding and are never used
// for body content.
type PageFormat struct {
	WidthMm  float64
	HeightMm float64
	MarginMm float64 // outer margin, top, bottom and sides
	HeaderMm float64 // header band below the top margin
	FooterMm float64 // footer band above the bottom margin
}

// A4 is the default portrait page format.
var A4 = PageFormat{
	WidthMm:  210,
	HeightMm: 297,
	MarginMm: 15,
	HeaderMm: 20,
	FooterMm: 10,
}

// Letter is the US letter portrait format with the same bands as A4.
var Letter = PageFormat{
	WidthMm:  215.9,
	HeightMm: 279.4,
	MarginMm: 15,
	HeaderMm: 20,
	FooterMm: 10,
}

// ErrUnknownPageSize indicates a page size name with no preset.
var ErrUnknownPageSize = errors.New("unknown page size")

// FormatByName returns the preset for "a4" or "letter" (case-insensitive).
// An empty name selects A4.
func FormatByName(name string) (PageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "a4":
		return A4, nil
	case "letter":
		return Letter, nil
	default:
		return PageFormat{}, fmt.Errorf("%w: %q (must be a4 or letter)", ErrUnknownPageSize, name)
	}
}

// Validate checks that the format has positive dimensions and leaves
// a positive content band.
func (f PageFormat) Validate() error {
	if f.WidthMm <= 0 || f.HeightMm <= 0 {
		return fmt.Errorf("%w: page size %.1fx%.1fmm", ErrInvalidPageFormat, f.WidthMm, f.HeightMm)
	}
	if f.MarginMm < 0 || f.HeaderMm < 0 || f.FooterMm < 0 {
		return fmt.Errorf("%w: negative margin or band", ErrInvalidPageFormat)
	}
	if 2*f.MarginMm >= f.WidthMm {
		return fmt.Errorf("%w: side margins %.1fmm exceed page width", ErrInvalidPageFormat, f.MarginMm)
	}
	if f.ContentHeightMm() <= 0 {
		return fmt.Errorf("%w: no room for content (%.1fmm)", ErrInvalidPageFormat, f.ContentHeightMm())
	}
	return nil
}

// ContentTopMm is the distance from the top edge to the content band.
func (f PageFormat) ContentTopMm() float64 {
	return f.MarginMm + f.HeaderMm
}

// ContentHeightMm is the height of the content band.
func (f PageFormat) ContentHeightMm() float64 {
	return f.HeightMm - 2*f.MarginMm - f.HeaderMm - f.FooterMm
}

// FooterTopMm is the distance from the top edge to the footer band.
func (f PageFormat) FooterTopMm() float64 {
	return f.HeightMm - f.MarginMm - f.FooterMm
}

// PxPerMm returns the isotropic scale implied by mapping widthPx onto the
// full page width.
func (f PageFormat) PxPerMm(widthPx int) float64 {
	return float64(widthPx) / f.WidthMm
}

// ContentHeightPx converts the content band height to bitmap rows for a
// bitmap widthPx wide.
func (f PageFormat) ContentHeightPx(widthPx int) (int, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if widthPx <= 0 {
		return 0, fmt.Errorf("%w: bitmap width %dpx", ErrInvalidPageFormat, widthPx)
	}
	h := int(math.Floor(f.ContentHeightMm()*f.PxPerMm(widthPx) + pxEpsilon))
	if h <= 0 {
		return 0, fmt.Errorf("%w: content band rounds to %dpx at width %dpx", ErrInvalidPageFormat, h, widthPx)
	}
	return h, nil
}

// HeightPx converts the full page height to pixels for a bitmap widthPx wide.
func (f PageFormat) HeightPx(widthPx int) int {
	return int(math.Round(f.HeightMm * f.PxPerMm(widthPx)))
}

// MmToPx converts a length on the page to pixels at the given scale.
func MmToPx(mm, pxPerMm float64) int {
	return int(math.Round(mm * pxPerMm))
}

// WidthInches and HeightInches give the paper size for print backends
// that take inches.
func (f PageFormat) WidthInches() float64  { return f.WidthMm / mmPerInch }
func (f PageFormat) HeightInches() float64 { return f.HeightMm / mmPerInch }

const mmPerInch = 25.4
