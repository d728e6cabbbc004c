package layout

import "fmt"

// PageSlice is the band of source rows drawn on one output page.
type PageSlice struct {
	Index          int // 0-based page index
	SourceOffsetPx int // first source row
	SliceHeightPx  int // number of source rows; may be short on the last page
}

// End returns the row after the last row of the slice.
func (s PageSlice) End() int {
	return s.SourceOffsetPx + s.SliceHeightPx
}

// Plan is the pagination of one captured bitmap onto a page format.
type Plan struct {
	Format          PageFormat
	WidthPx         int
	HeightPx        int
	PxPerMm         float64
	ContentHeightPx int
	Slices          []PageSlice
}

// PageCount returns the number of output pages.
func (p *Plan) PageCount() int {
	return len(p.Slices)
}

// Paginate plans the pages for a bitmap of widthPx x heightPx on format f.
// The bitmap width maps onto the full page width; the same px-per-mm factor
// is used vertically.
func Paginate(heightPx, widthPx int, f PageFormat) (*Plan, error) {
	if heightPx < 0 {
		return nil, fmt.Errorf("%w: negative bitmap height %dpx", ErrInvalidPageFormat, heightPx)
	}
	contentPx, err := f.ContentHeightPx(widthPx)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Format:          f,
		WidthPx:         widthPx,
		HeightPx:        heightPx,
		PxPerMm:         f.PxPerMm(widthPx),
		ContentHeightPx: contentPx,
		Slices:          Slices(heightPx, contentPx),
	}, nil
}

// Slices cuts heightPx rows into pages of pageHeightPx rows.
//
// The page count is ceil(heightPx/pageHeightPx) with a floor of one page, so
// an exact multiple never yields a trailing blank page and an empty bitmap
// still yields one page. Slices never overlap and their heights sum to
// heightPx. Returns nil if pageHeightPx is not positive.
func Slices(heightPx, pageHeightPx int) []PageSlice {
	if pageHeightPx <= 0 || heightPx < 0 {
		return nil
	}

	count := 1
	if heightPx > 0 {
		count = (heightPx + pageHeightPx - 1) / pageHeightPx
	}

	slices := make([]PageSlice, count)
	for i := range slices {
		offset := i * pageHeightPx
		slices[i] = PageSlice{
			Index:          i,
			SourceOffsetPx: offset,
			SliceHeightPx:  min(pageHeightPx, heightPx-offset),
		}
	}
	return slices
}
