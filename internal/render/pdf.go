package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"image"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/alnah/go-audit2pdf/internal/assets"
	"github.com/alnah/go-audit2pdf/internal/fileutil"
	"github.com/alnah/go-audit2pdf/internal/layout"
)

// Printer prints a local HTML file to PDF.
type Printer interface {
	PrintFile(ctx context.Context, path string, f layout.PageFormat) ([]byte, error)
}

// pointsPerMm converts millimeters to PDF points.
const pointsPerMm = 72 / 25.4

// pageDimTolerance absorbs Chrome's rounding of paper sizes, in points.
const pageDimTolerance = 2.0

var disableConfigDir sync.Once

// PDFWriter lays every page out as absolutely positioned HTML (slice image in
// the content band, logo and header text in the header band, footer text and
// page label in the footer band) and prints it to PDF.
type PDFWriter struct {
	printer Printer
	pages   *template.Template
}

// NewPDFWriter creates a writer printing through p with the pages template
// of ts.
func NewPDFWriter(p Printer, ts *assets.TemplateSet) (*PDFWriter, error) {
	if p == nil {
		panic("nil Printer in NewPDFWriter")
	}
	if ts == nil {
		return nil, fmt.Errorf("%w: nil template set", ErrInvalidDocument)
	}
	tmpl, err := template.New("pages").Parse(ts.Pages)
	if err != nil {
		return nil, fmt.Errorf("parsing pages template %s: %w", ts.Name, err)
	}

	return &PDFWriter{printer: p, pages: tmpl}, nil
}

// Extension implements Writer.
func (w *PDFWriter) Extension() string { return "pdf" }

// MediaType implements Writer.
func (w *PDFWriter) MediaType() string { return "application/pdf" }

type pagesData struct {
	Title    string
	WidthMm  float64
	HeightMm float64
	Logo     layout.Rect
	Header   layout.Rect
	Content  layout.Rect
	Footer   layout.Rect
	Label    layout.Rect
	LogoSrc  string
	Pages    []pageData
}

type pageData struct {
	Index      int
	ImageSrc   string
	DrawLogo   bool
	HeaderText string
	FooterText string
	PageLabel  string
}

// Write implements Writer. The printed PDF is checked with pdfcpu: it must
// have exactly one page per slice, each of the target paper size.
func (w *PDFWriter) Write(ctx context.Context, doc *Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	dir, cleanup, err := fileutil.MakeTempDir("audit2pdf-pages-")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f := doc.Plan.Format
	placement := f.Placement(doc.Logo != nil)
	data := pagesData{
		Title:    doc.Title,
		WidthMm:  f.WidthMm,
		HeightMm: f.HeightMm,
		Logo:     placement.Logo,
		Header:   placement.Header,
		Content:  placement.Content,
		Footer:   placement.Footer,
		Label:    placement.PageLabel,
	}

	if doc.Logo != nil {
		data.LogoSrc = "logo.png"
		if err := writePNG(filepath.Join(dir, data.LogoSrc), doc.Logo); err != nil {
			return nil, err
		}
	}

	for i, s := range doc.Plan.Slices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o := doc.Overlays[i]
		p := pageData{
			Index:      s.Index,
			DrawLogo:   o.DrawLogo,
			HeaderText: o.HeaderText,
			FooterText: o.FooterText,
			PageLabel:  o.PageLabel,
		}
		if img := sliceImage(doc.Source, s); img != nil {
			p.ImageSrc = fmt.Sprintf("page-%03d.png", i+1)
			if err := writePNG(filepath.Join(dir, p.ImageSrc), img); err != nil {
				return nil, err
			}
		}
		data.Pages = append(data.Pages, p)
	}

	var html bytes.Buffer
	if err := w.pages.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("%w: pages template: %v", ErrEncode, err)
	}
	index := filepath.Join(dir, "index.html")
	if err := os.WriteFile(index, html.Bytes(), 0o600); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	pdf, err := w.printer.PrintFile(ctx, index, f)
	if err != nil {
		return nil, err
	}
	if err := verifyPDF(pdf, doc.Plan.PageCount(), f); err != nil {
		return nil, err
	}
	return pdf, nil
}

func writePNG(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, filepath.Base(path), err)
	}
	return nil
}

// verifyPDF checks page count and page size of a printed PDF.
func verifyPDF(pdf []byte, wantPages int, f layout.PageFormat) error {
	// pdfcpu otherwise writes a config directory on first use.
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()

	n, err := api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		return fmt.Errorf("%w: reading printed PDF: %v", ErrEncode, err)
	}
	if n != wantPages {
		return fmt.Errorf("%w: printed %d pages, planned %d", ErrPageCount, n, wantPages)
	}

	dims, err := api.PageDims(bytes.NewReader(pdf), conf)
	if err != nil {
		return fmt.Errorf("%w: reading page sizes: %v", ErrEncode, err)
	}
	wantW, wantH := f.WidthMm*pointsPerMm, f.HeightMm*pointsPerMm
	for i, d := range dims {
		if math.Abs(d.Width-wantW) > pageDimTolerance || math.Abs(d.Height-wantH) > pageDimTolerance {
			return fmt.Errorf("%w: page %d is %.1fx%.1fpt, want %.1fx%.1fpt",
				ErrPageCount, i+1, d.Width, d.Height, wantW, wantH)
		}
	}
	return nil
}
