package layout

import (
	"errors"
	"testing"
)

func TestSlices_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		heightPx   int
		pagePx     int
		wantCount  int
		wantSlices []PageSlice
	}{
		{
			name:      "exact multiple has no trailing page",
			heightPx:  3000,
			pagePx:    1000,
			wantCount: 3,
			wantSlices: []PageSlice{
				{Index: 0, SourceOffsetPx: 0, SliceHeightPx: 1000},
				{Index: 1, SourceOffsetPx: 1000, SliceHeightPx: 1000},
				{Index: 2, SourceOffsetPx: 2000, SliceHeightPx: 1000},
			},
		},
		{
			name:      "short last page",
			heightPx:  2500,
			pagePx:    1000,
			wantCount: 3,
			wantSlices: []PageSlice{
				{Index: 0, SourceOffsetPx: 0, SliceHeightPx: 1000},
				{Index: 1, SourceOffsetPx: 1000, SliceHeightPx: 1000},
				{Index: 2, SourceOffsetPx: 2000, SliceHeightPx: 500},
			},
		},
		{
			name:       "empty bitmap still yields one page",
			heightPx:   0,
			pagePx:     1000,
			wantCount:  1,
			wantSlices: []PageSlice{{Index: 0, SourceOffsetPx: 0, SliceHeightPx: 0}},
		},
		{
			name:       "single row",
			heightPx:   1,
			pagePx:     1000,
			wantCount:  1,
			wantSlices: []PageSlice{{Index: 0, SourceOffsetPx: 0, SliceHeightPx: 1}},
		},
		{
			name:       "exactly one page",
			heightPx:   1000,
			pagePx:     1000,
			wantCount:  1,
			wantSlices: []PageSlice{{Index: 0, SourceOffsetPx: 0, SliceHeightPx: 1000}},
		},
		{
			name:      "one row past a page boundary",
			heightPx:  1001,
			pagePx:    1000,
			wantCount: 2,
			wantSlices: []PageSlice{
				{Index: 0, SourceOffsetPx: 0, SliceHeightPx: 1000},
				{Index: 1, SourceOffsetPx: 1000, SliceHeightPx: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Slices(tt.heightPx, tt.pagePx)
			if len(got) != tt.wantCount {
				t.Fatalf("Slices(%d, %d) returned %d pages, want %d", tt.heightPx, tt.pagePx, len(got), tt.wantCount)
			}
			for i, want := range tt.wantSlices {
				if got[i] != want {
					t.Errorf("slice %d = %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}

func TestSlices_NonPositivePageHeight(t *testing.T) {
	t.Parallel()

	for _, pagePx := range []int{0, -1} {
		if got := Slices(100, pagePx); got != nil {
			t.Errorf("Slices(100, %d) = %v, want nil", pagePx, got)
		}
	}
}

// TestSlices_Exactness walks a grid of heights and page heights and checks
// that slices tile the bitmap: contiguous, no overlap, no gap, exact sum.
func TestSlices_Exactness(t *testing.T) {
	t.Parallel()

	for pagePx := 1; pagePx <= 64; pagePx += 7 {
		for heightPx := 1; heightPx <= 700; heightPx += 13 {
			slices := Slices(heightPx, pagePx)

			sum := 0
			next := 0
			for i, s := range slices {
				if s.Index != i {
					t.Fatalf("h=%d p=%d: slice %d has index %d", heightPx, pagePx, i, s.Index)
				}
				if s.SourceOffsetPx != next {
					t.Fatalf("h=%d p=%d: slice %d starts at %d, want %d", heightPx, pagePx, i, s.SourceOffsetPx, next)
				}
				if s.SliceHeightPx <= 0 || s.SliceHeightPx > pagePx {
					t.Fatalf("h=%d p=%d: slice %d height %d out of (0,%d]", heightPx, pagePx, i, s.SliceHeightPx, pagePx)
				}
				if i < len(slices)-1 && s.SliceHeightPx != pagePx {
					t.Fatalf("h=%d p=%d: non-final slice %d is short (%d)", heightPx, pagePx, i, s.SliceHeightPx)
				}
				sum += s.SliceHeightPx
				next = s.End()
			}
			if sum != heightPx {
				t.Fatalf("h=%d p=%d: slice heights sum to %d", heightPx, pagePx, sum)
			}
		}
	}
}

func TestSlices_NoSpuriousTrailingPage(t *testing.T) {
	t.Parallel()

	for _, pagePx := range []int{1, 7, 1000, 2311} {
		for k := 1; k <= 12; k++ {
			got := len(Slices(k*pagePx, pagePx))
			if got != k {
				t.Errorf("Slices(%d*%d, %d) gave %d pages, want %d", k, pagePx, pagePx, got, k)
			}
		}
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	t.Run("content band excludes header and footer", func(t *testing.T) {
		t.Parallel()

		// 1 px per mm: content band of A4 is 297 - 2*15 - 20 - 10 = 237mm.
		plan, err := Paginate(474, 210, A4)
		if err != nil {
			t.Fatalf("Paginate() error = %v", err)
		}
		if plan.ContentHeightPx != 237 {
			t.Errorf("ContentHeightPx = %d, want 237", plan.ContentHeightPx)
		}
		if plan.PageCount() != 2 {
			t.Errorf("PageCount() = %d, want 2", plan.PageCount())
		}
		if plan.PxPerMm != 1 {
			t.Errorf("PxPerMm = %v, want 1", plan.PxPerMm)
		}
	})

	t.Run("capture scale width", func(t *testing.T) {
		t.Parallel()

		// 1024 CSS px at scale 2: 237 * 2048 / 210 = 2311.31
		plan, err := Paginate(5000, 2048, A4)
		if err != nil {
			t.Fatalf("Paginate() error = %v", err)
		}
		if plan.ContentHeightPx != 2311 {
			t.Errorf("ContentHeightPx = %d, want 2311", plan.ContentHeightPx)
		}
		if plan.PageCount() != 3 {
			t.Errorf("PageCount() = %d, want 3", plan.PageCount())
		}
		last := plan.Slices[len(plan.Slices)-1]
		if last.SliceHeightPx != 5000-2*2311 {
			t.Errorf("last slice height = %d, want %d", last.SliceHeightPx, 5000-2*2311)
		}
	})

	t.Run("empty bitmap", func(t *testing.T) {
		t.Parallel()

		plan, err := Paginate(0, 2048, A4)
		if err != nil {
			t.Fatalf("Paginate() error = %v", err)
		}
		if plan.PageCount() != 1 {
			t.Errorf("PageCount() = %d, want 1", plan.PageCount())
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		a, errA := Paginate(12345, 2048, A4)
		b, errB := Paginate(12345, 2048, A4)
		if errA != nil || errB != nil {
			t.Fatalf("Paginate() errors = %v, %v", errA, errB)
		}
		if a.PageCount() != b.PageCount() {
			t.Fatalf("page counts differ: %d vs %d", a.PageCount(), b.PageCount())
		}
		for i := range a.Slices {
			if a.Slices[i] != b.Slices[i] {
				t.Errorf("slice %d differs: %+v vs %+v", i, a.Slices[i], b.Slices[i])
			}
		}
	})
}

func TestPaginate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		heightPx int
		widthPx  int
		format   PageFormat
	}{
		{name: "negative height", heightPx: -1, widthPx: 100, format: A4},
		{name: "zero width", heightPx: 100, widthPx: 0, format: A4},
		{name: "bands fill the page", heightPx: 100, widthPx: 100, format: PageFormat{WidthMm: 210, HeightMm: 60, MarginMm: 15, HeaderMm: 20, FooterMm: 10}},
		{name: "zero size", heightPx: 100, widthPx: 100, format: PageFormat{}},
		{name: "negative band", heightPx: 100, widthPx: 100, format: PageFormat{WidthMm: 210, HeightMm: 297, HeaderMm: -1}},
		{name: "side margins too wide", heightPx: 100, widthPx: 100, format: PageFormat{WidthMm: 20, HeightMm: 297, MarginMm: 10}},
		{name: "content rounds to zero rows", heightPx: 100, widthPx: 1, format: PageFormat{WidthMm: 210, HeightMm: 100, MarginMm: 15, HeaderMm: 20, FooterMm: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Paginate(tt.heightPx, tt.widthPx, tt.format)
			if !errors.Is(err, ErrInvalidPageFormat) {
				t.Errorf("Paginate() error = %v, want ErrInvalidPageFormat", err)
			}
		})
	}
}

func TestPaginate_MonotonicInHeight(t *testing.T) {
	t.Parallel()

	prev := 0
	for h := 0; h <= 20000; h += 97 {
		plan, err := Paginate(h, 2048, A4)
		if err != nil {
			t.Fatalf("Paginate(%d) error = %v", h, err)
		}
		if plan.PageCount() < prev {
			t.Fatalf("PageCount dropped from %d to %d at height %d", prev, plan.PageCount(), h)
		}
		prev = plan.PageCount()
	}
}

func TestFormatByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    PageFormat
		wantErr error
	}{
		{name: "", want: A4},
		{name: "a4", want: A4},
		{name: " A4 ", want: A4},
		{name: "Letter", want: Letter},
		{name: "legal", wantErr: ErrUnknownPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatByName(tt.name)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FormatByName(%q) error = %v, want %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatByName(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
			if tt.wantErr == nil {
				if err := got.Validate(); err != nil {
					t.Errorf("preset %q invalid: %v", tt.name, err)
				}
			}
		})
	}
}
