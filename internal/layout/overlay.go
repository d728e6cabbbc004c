package layout

import "fmt"

// Branding is the per-export input to overlay computation.
type Branding struct {
	HeaderText string
	FooterText string
	HasLogo    bool
}

// Overlay describes the branding drawn on one page.
type Overlay struct {
	PageIndex  int
	DrawLogo   bool
	HeaderText string
	FooterText string
	PageLabel  string
}

// PageLabel formats the footer page counter.
func PageLabel(pageIndex, pageCount int) string {
	return fmt.Sprintf("page %d of %d", pageIndex+1, pageCount)
}

// ComputeOverlay returns the overlay for page pageIndex of pageCount.
func ComputeOverlay(pageIndex, pageCount int, b Branding) Overlay {
	return Overlay{
		PageIndex:  pageIndex,
		DrawLogo:   b.HasLogo,
		HeaderText: b.HeaderText,
		FooterText: b.FooterText,
		PageLabel:  PageLabel(pageIndex, pageCount),
	}
}

// ComputeOverlays returns one overlay per page.
func ComputeOverlays(pageCount int, b Branding) []Overlay {
	overlays := make([]Overlay, pageCount)
	for i := range overlays {
		overlays[i] = ComputeOverlay(i, pageCount, b)
	}
	return overlays
}

// Rect is an axis-aligned box on the page, in millimeters from the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the Y coordinate just below the box.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps reports whether two boxes share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

const (
	// logoGapMm separates the logo from the header text.
	logoGapMm = 5
	// pageLabelMm is the widest footer box the page counter gets.
	pageLabelMm = 30
	// labelGapMm separates the footer text from the page counter.
	labelGapMm = 5
)

// Placement locates every drawable element of a page.
type Placement struct {
	Logo      Rect // zero when the page has no logo
	Header    Rect // header text box, vertically centered text
	Content   Rect // body slice; spans the full page width
	Footer    Rect // footer text, left aligned
	PageLabel Rect // page counter, right aligned, right of Footer
}

// Placement computes element boxes from the same bands Paginate uses.
func (f PageFormat) Placement(hasLogo bool) Placement {
	var p Placement

	headerX := f.MarginMm
	if hasLogo {
		p.Logo = Rect{X: f.MarginMm, Y: f.MarginMm, W: f.HeaderMm, H: f.HeaderMm}
		headerX += f.HeaderMm + logoGapMm
	}
	p.Header = Rect{
		X: headerX,
		Y: f.MarginMm,
		W: f.WidthMm - f.MarginMm - headerX,
		H: f.HeaderMm,
	}
	p.Content = Rect{X: 0, Y: f.ContentTopMm(), W: f.WidthMm, H: f.ContentHeightMm()}
	// The counter takes at most a third of the footer band.
	footerW := f.WidthMm - 2*f.MarginMm
	labelW := min(pageLabelMm, footerW/3)
	gap := min(labelGapMm, footerW/10)
	p.Footer = Rect{
		X: f.MarginMm,
		Y: f.FooterTopMm(),
		W: footerW - labelW - gap,
		H: f.FooterMm,
	}
	p.PageLabel = Rect{
		X: f.WidthMm - f.MarginMm - labelW,
		Y: p.Footer.Y,
		W: labelW,
		H: f.FooterMm,
	}
	return p
}
