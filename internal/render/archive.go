package render

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/alnah/go-audit2pdf/internal/layout"
	"github.com/alnah/go-audit2pdf/internal/yamlutil"
)

// ManifestName is the archive entry describing the exported pages.
const ManifestName = "manifest.yaml"

// Text heights as a share of the band they sit in.
const (
	headerTextShare = 0.45
	footerTextShare = 0.6
)

var textColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

// ArchiveWriter composites every page as a PNG at the capture resolution and
// stores them, with a YAML manifest, in a zip archive. It needs no browser.
type ArchiveWriter struct {
	// Modified is stamped on every entry. Zero means the Unix epoch, which
	// keeps archives byte-identical across runs.
	Modified time.Time
}

// NewArchiveWriter creates an ArchiveWriter with a fixed entry timestamp.
func NewArchiveWriter() *ArchiveWriter {
	return &ArchiveWriter{}
}

// Extension implements Writer.
func (w *ArchiveWriter) Extension() string { return "zip" }

// MediaType implements Writer.
func (w *ArchiveWriter) MediaType() string { return "application/zip" }

// Manifest lists the pages of an archive.
type Manifest struct {
	Title     string         `yaml:"title"`
	PageCount int            `yaml:"pageCount"`
	Format    ManifestFormat `yaml:"format"`
	WidthPx   int            `yaml:"widthPx"`
	HeightPx  int            `yaml:"heightPx"`
	Pages     []ManifestPage `yaml:"pages"`
}

// ManifestFormat is the page format in millimeters.
type ManifestFormat struct {
	WidthMm  float64 `yaml:"widthMm"`
	HeightMm float64 `yaml:"heightMm"`
	MarginMm float64 `yaml:"marginMm"`
	HeaderMm float64 `yaml:"headerMm"`
	FooterMm float64 `yaml:"footerMm"`
}

// ManifestPage is one page entry.
type ManifestPage struct {
	File           string `yaml:"file"`
	SourceOffsetPx int    `yaml:"sourceOffsetPx"`
	SliceHeightPx  int    `yaml:"sliceHeightPx"`
	Label          string `yaml:"label"`
}

// PageFileName names the PNG of page i (0-based).
func PageFileName(i int) string {
	return fmt.Sprintf("page-%03d.png", i+1)
}

// Write implements Writer.
func (w *ArchiveWriter) Write(ctx context.Context, doc *Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	modified := w.Modified
	if modified.IsZero() {
		modified = time.Unix(0, 0).UTC()
	}

	plan := doc.Plan
	manifest := Manifest{
		Title:     doc.Title,
		PageCount: plan.PageCount(),
		Format: ManifestFormat{
			WidthMm:  plan.Format.WidthMm,
			HeightMm: plan.Format.HeightMm,
			MarginMm: plan.Format.MarginMm,
			HeaderMm: plan.Format.HeaderMm,
			FooterMm: plan.Format.FooterMm,
		},
		WidthPx:  plan.WidthPx,
		HeightPx: plan.Format.HeightPx(plan.WidthPx),
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, s := range plan.Slices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := composePage(doc, s, doc.Overlays[i])

		var png bytes.Buffer
		if err := imaging.Encode(&png, page, imaging.PNG); err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrEncode, i+1, err)
		}
		name := PageFileName(i)
		if err := writeEntry(zw, name, png.Bytes(), modified); err != nil {
			return nil, err
		}
		manifest.Pages = append(manifest.Pages, ManifestPage{
			File:           name,
			SourceOffsetPx: s.SourceOffsetPx,
			SliceHeightPx:  s.SliceHeightPx,
			Label:          doc.Overlays[i].PageLabel,
		})
	}

	data, err := yamlutil.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrEncode, err)
	}
	if err := writeEntry(zw, ManifestName, data, modified); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing archive: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, name, err)
	}
	return nil
}

// composePage draws one full page: white paper, body slice in the content
// band, then logo, header text, footer text and page label.
func composePage(doc *Document, s layout.PageSlice, o layout.Overlay) *image.NRGBA {
	plan := doc.Plan
	f := plan.Format
	scale := plan.PxPerMm
	place := f.Placement(o.DrawLogo)

	page := imaging.New(plan.WidthPx, f.HeightPx(plan.WidthPx), color.White)

	if img := sliceImage(doc.Source, s); img != nil {
		page = imaging.Paste(page, img, image.Pt(0, layout.MmToPx(place.Content.Y, scale)))
	}

	if o.DrawLogo {
		r := pxRect(place.Logo, scale)
		logo := imaging.Fit(doc.Logo, r.Dx(), r.Dy(), imaging.Lanczos)
		lb := logo.Bounds()
		at := image.Pt(r.Min.X+(r.Dx()-lb.Dx())/2, r.Min.Y+(r.Dy()-lb.Dy())/2)
		page = imaging.Overlay(page, logo, at, 1.0)
	}

	page = drawText(page, o.HeaderText, pxRect(place.Header, scale), headerTextShare, false)
	page = drawText(page, o.FooterText, pxRect(place.Footer, scale), footerTextShare, false)
	page = drawText(page, o.PageLabel, pxRect(place.PageLabel, scale), footerTextShare, true)
	return page
}

func pxRect(r layout.Rect, scale float64) image.Rectangle {
	x0, y0 := layout.MmToPx(r.X, scale), layout.MmToPx(r.Y, scale)
	return image.Rect(x0, y0, x0+layout.MmToPx(r.W, scale), y0+layout.MmToPx(r.H, scale))
}

// drawText renders text with the fixed 7x13 face, scales it to share of the
// box height (shrinking further to fit the box width) and overlays it
// vertically centered, left or right aligned.
func drawText(dst *image.NRGBA, text string, box image.Rectangle, share float64, right bool) *image.NRGBA {
	if text == "" || box.Dx() <= 0 || box.Dy() <= 0 {
		return dst
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	tw := font.MeasureString(face, text).Ceil()
	th := (metrics.Ascent + metrics.Descent).Ceil()
	if tw <= 0 || th <= 0 {
		return dst
	}

	glyphs := image.NewNRGBA(image.Rect(0, 0, tw, th))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	targetH := max(1, int(float64(box.Dy())*share))
	targetW := tw * targetH / th
	if targetW > box.Dx() {
		targetW = box.Dx()
		targetH = max(1, th*targetW/tw)
	}
	scaled := imaging.Resize(glyphs, targetW, targetH, imaging.Lanczos)

	x := box.Min.X
	if right {
		x = box.Max.X - targetW
	}
	y := box.Min.Y + (box.Dy()-targetH)/2
	return imaging.Overlay(dst, scaled, image.Pt(x, y), 1.0)
}
