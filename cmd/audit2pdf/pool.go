package main

import (
	"context"

	audit2pdf "github.com/alnah/go-audit2pdf"
)

// ReportExporter is the part of *audit2pdf.Exporter the CLI drives.
type ReportExporter interface {
	ExportReport(ctx context.Context, rep *audit2pdf.Report, opts audit2pdf.ExportOptions, ropts audit2pdf.ReportOptions) (*audit2pdf.Artifact, error)
}

// Compile-time interface implementation check.
var _ ReportExporter = (*audit2pdf.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() ReportExporter
	Release(ReportExporter)
	Size() int
	Close() error
}

// poolAdapter exposes *audit2pdf.ExporterPool as a Pool.
type poolAdapter struct {
	pool *audit2pdf.ExporterPool
}

// Compile-time interface implementation check.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() ReportExporter {
	return a.pool.Acquire()
}

// Release returns an exporter to the pool. Anything that did not come from
// Acquire is a programmer error.
func (a *poolAdapter) Release(e ReportExporter) {
	exp, ok := e.(*audit2pdf.Exporter)
	if !ok {
		panic("poolAdapter.Release: unexpected type, want *audit2pdf.Exporter")
	}
	a.pool.Release(exp)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
