//go:build integration

package audit2pdf

// Notes:
// - Integration tests drive a real Chrome through a shared ExporterPool
// - testPool is initialized in TestMain and closed after all tests complete
// - Pool size is capped at 4 for CI environments to avoid resource exhaustion

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-audit2pdf/internal/report"
	"github.com/alnah/go-audit2pdf/internal/theme"
)

const testTimeout = 60 * time.Second

var (
	testPool    *ExporterPool
	testZIPPool *ExporterPool
)

func TestMain(m *testing.M) {
	poolSize := min(ResolvePoolSize(0), 4)

	testPool = NewExporterPool(poolSize)
	testZIPPool = NewExporterPool(poolSize, WithFormat(FormatZIP))

	code := m.Run()

	_ = testPool.Close()
	_ = testZIPPool.Close()
	os.Exit(code)
}

func acquire(t *testing.T, pool *ExporterPool) *Exporter {
	t.Helper()
	e := pool.Acquire()
	t.Cleanup(func() { pool.Release(e) })
	return e
}

func sampleReport() *Report {
	long := strings.Repeat("The site loads quickly and the navigation is clear. ", 60)
	return &Report{
		URL:              "https://www.example.com/",
		Summary:          "Strong foundations with **clear** room to grow.\n\n" + long,
		OverallPotential: report.ScoredSection{Score: 72, Comment: long},
		WebsiteUX:        report.ScoredSection{Score: 81, Comment: long},
		SEO:              report.ScoredSection{Score: 58, Comment: long},
		Pitch:            "Let us help you grow.",
		CallNotes:        "Call back on Monday.",
	}
}

func TestExportReport_PDF_Integration(t *testing.T) {
	t.Parallel()

	e := acquire(t, testPool)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	logo, err := NewLogo(encodeTestImage(t, "png", 120, 40), DefaultLogoLimit)
	if err != nil {
		t.Fatal(err)
	}

	art, err := e.ExportReport(ctx, sampleReport(), ExportOptions{
		SelectedSections: DefaultSections(),
		HeaderText:       "Acme Agency",
		FooterText:       "Confidential",
		Logo:             logo,
	}, ReportOptions{Theme: "dark", Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("ExportReport() error = %v", err)
	}

	if art.Name != "Website-Audit-www.example.com.pdf" {
		t.Errorf("Name = %q", art.Name)
	}
	if !bytes.HasPrefix(art.Data, []byte("%PDF-")) {
		t.Error("artifact is not a PDF")
	}
	if art.PageCount < 2 {
		t.Errorf("PageCount = %d, want several pages for a long report", art.PageCount)
	}
}

func TestExportReport_SectionSelection_Integration(t *testing.T) {
	t.Parallel()

	e := acquire(t, testZIPPool)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	rep := sampleReport()
	small, err := e.ExportReport(ctx, rep, ExportOptions{SelectedSections: []string{SectionPitch}}, ReportOptions{})
	if err != nil {
		t.Fatalf("ExportReport(pitch) error = %v", err)
	}
	full, err := e.ExportReport(ctx, rep, ExportOptions{SelectedSections: SectionIDs()}, ReportOptions{})
	if err != nil {
		t.Fatalf("ExportReport(all) error = %v", err)
	}
	if small.PageCount > full.PageCount {
		t.Errorf("PageCount(pitch) = %d > PageCount(all) = %d", small.PageCount, full.PageCount)
	}

	empty, err := e.ExportReport(ctx, rep, ExportOptions{}, ReportOptions{})
	if err != nil {
		t.Fatalf("ExportReport(empty) error = %v", err)
	}
	if empty.PageCount != 1 {
		t.Errorf("PageCount(empty) = %d, want 1", empty.PageCount)
	}
	if _, err := zip.NewReader(bytes.NewReader(empty.Data), int64(len(empty.Data))); err != nil {
		t.Errorf("artifact is not a zip: %v", err)
	}
}

func TestExport_RestoresLiveView_Integration(t *testing.T) {
	t.Parallel()

	e := acquire(t, testZIPPool)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	v, err := e.OpenReport(ctx, sampleReport(), ReportOptions{Theme: "dark"})
	if err != nil {
		t.Fatalf("OpenReport() error = %v", err)
	}
	defer func() { _ = v.Close() }()

	if _, err := e.Export(ctx, v, "example.com", ExportOptions{SelectedSections: []string{SectionSEO}}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if got, err := v.ActiveTheme(ctx); err != nil || got != theme.Dark {
		t.Errorf("ActiveTheme() = %s, %v, want dark", got, err)
	}
	for _, entry := range v.Sections().Snapshot() {
		hidden, err := entry.Region.Hidden(ctx)
		if err != nil {
			t.Fatalf("Hidden(%s) error = %v", entry.ID, err)
		}
		if hidden {
			t.Errorf("section %s still hidden after export", entry.ID)
		}
	}

	_ = v.Close()
	if _, err := e.Export(ctx, v, "example.com", ExportOptions{}); !errors.Is(err, ErrViewDetached) {
		t.Errorf("Export(closed view) error = %v, want ErrViewDetached", err)
	}
}
