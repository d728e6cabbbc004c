// Package render serializes a paginated capture into an output document.
//
// Two writers are provided: PDFWriter composes fixed-size HTML pages and
// prints them through Chrome; ArchiveWriter composites every page in pure Go
// and stores the PNGs in a zip archive.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/alnah/go-audit2pdf/internal/layout"
)

// Sentinel errors for serialization.
var (
	ErrInvalidDocument = errors.New("invalid document")
	ErrEncode          = errors.New("page encoding failed")
	ErrPageCount       = errors.New("output page count mismatch")
)

// Document is everything a writer needs to produce one output file.
type Document struct {
	Title    string
	Source   image.Image    // captured bitmap, bounds starting at (0,0)
	Plan     *layout.Plan   // pagination of Source
	Overlays []layout.Overlay // one per page
	Logo     image.Image    // nil when no logo is drawn
}

// Writer serializes a Document.
type Writer interface {
	// Extension is the file extension of the output, without the dot.
	Extension() string
	// MediaType is the MIME type of the output.
	MediaType() string
	// Write produces the output bytes.
	Write(ctx context.Context, doc *Document) ([]byte, error)
}

// Validate checks that the plan, overlays and bitmap agree.
func (d *Document) Validate() error {
	if d == nil || d.Plan == nil || d.Source == nil {
		return fmt.Errorf("%w: missing plan or bitmap", ErrInvalidDocument)
	}
	b := d.Source.Bounds()
	if b.Dx() != d.Plan.WidthPx || b.Dy() != d.Plan.HeightPx {
		return fmt.Errorf("%w: bitmap %dx%d does not match plan %dx%d",
			ErrInvalidDocument, b.Dx(), b.Dy(), d.Plan.WidthPx, d.Plan.HeightPx)
	}
	if len(d.Overlays) != d.Plan.PageCount() {
		return fmt.Errorf("%w: %d overlays for %d pages", ErrInvalidDocument, len(d.Overlays), d.Plan.PageCount())
	}
	for i, o := range d.Overlays {
		if o.DrawLogo && d.Logo == nil {
			return fmt.Errorf("%w: page %d draws a logo but none was given", ErrInvalidDocument, i+1)
		}
	}
	return nil
}

// sliceImage returns the rows of the source covered by s, or nil for an
// empty slice.
func sliceImage(src image.Image, s layout.PageSlice) image.Image {
	if s.SliceHeightPx <= 0 {
		return nil
	}
	b := src.Bounds()
	return imaging.Crop(src, image.Rect(b.Min.X, b.Min.Y+s.SourceOffsetPx, b.Max.X, b.Min.Y+s.End()))
}
