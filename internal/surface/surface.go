// Package surface defines the rendered report area that an export rasterizes.
package surface

import (
	"context"
	"errors"
	"image"
)

// Sentinel errors returned by Capturer implementations.
var (
	// ErrDetached is returned when the rendered view has gone away.
	ErrDetached = errors.New("view detached")
	// ErrEmptyRegion is returned when the capture region has no area.
	ErrEmptyRegion = errors.New("capture region is empty")
)

// DefaultScale is the pixel density used when none is configured.
const DefaultScale = 2.0

// CaptureResult is a rasterized snapshot of the capture region.
// Image bounds start at (0,0); Bounds().Dx() and Dy() are the device pixel
// width and height.
type CaptureResult struct {
	Image image.Image
	Scale float64
}

// WidthPx returns the bitmap width in device pixels.
func (r *CaptureResult) WidthPx() int { return r.Image.Bounds().Dx() }

// HeightPx returns the bitmap height in device pixels.
func (r *CaptureResult) HeightPx() int { return r.Image.Bounds().Dy() }

// Capturer rasterizes the capture region as it is currently rendered:
// elements hidden at capture time are absent from the bitmap and the
// current theme's background is used.
type Capturer interface {
	Capture(ctx context.Context, scale float64) (*CaptureResult, error)
}

// Detacher is implemented by views that can report they were torn down.
type Detacher interface {
	Detached() bool
}
