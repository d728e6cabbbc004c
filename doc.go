// Package audit2pdf exports a rendered website-audit report as a paginated,
// branded document.
//
// # Quick Start
//
// Load a report, export it and close the exporter when done:
//
//	rep, err := audit2pdf.LoadReport("acme.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exp := audit2pdf.NewExporter()
//	defer exp.Close()
//
//	art, err := exp.ExportReport(ctx, rep, audit2pdf.ExportOptions{
//	    SelectedSections: audit2pdf.DefaultSections(),
//	    HeaderText:       "Acme Agency",
//	    FooterText:       "Confidential",
//	}, audit2pdf.ReportOptions{})
//	if err != nil {
//	    fmt.Println(audit2pdf.UserMessage(err))
//	    return
//	}
//	os.WriteFile(art.Name, art.Data, 0644) // Website-Audit-acme.com.pdf
//
// # Export Pipeline
//
// An export walks a fixed state machine, reported through WithProgress:
//
//  1. preparing: the view is switched to the canonical theme and every
//     section that was not selected is hidden
//  2. capturing: the report region is rasterized at a fixed scale
//  3. paginating: the bitmap is cut into page slices whose height is the
//     page content band, so header and footer never overlap the body
//  4. serializing: every page is composed with its slice, logo, header,
//     footer and "page X of Y" label
//  5. done or failed, then idle
//
// The theme and section visibility are restored on every exit path. A view
// closed mid-export is detected: the restore is skipped and no artifact is
// returned.
//
// # Configuration
//
// Use functional options to customize the exporter:
//
//	exp := audit2pdf.NewExporter(
//	    audit2pdf.WithScale(2),
//	    audit2pdf.WithTheme("light"),
//	    audit2pdf.WithPageSize("letter"),
//	    audit2pdf.WithFormat(audit2pdf.FormatZIP),
//	    audit2pdf.WithLogger(logger),
//	)
//
// FormatPDF prints the pages through Chrome. FormatZIP composes PNG pages in
// Go and stores them with a YAML manifest.
//
// # Own Views
//
// Export accepts any View, so a report rendered elsewhere can be exported as
// long as it registers its sections and can be captured:
//
//	v, err := exp.OpenReport(ctx, rep, audit2pdf.ReportOptions{Theme: "dark"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//	art, err := exp.Export(ctx, v, rep.URL, opts)
//
// # Branding
//
// Logos are PNG or JPEG images of at most DefaultLogoLimit bytes. Validate
// them when the user picks the file:
//
//	logo, err := audit2pdf.LoadLogo("logo.png", audit2pdf.DefaultLogoLimit)
//	if errors.Is(err, audit2pdf.ErrAssetTooLarge) {
//	    // reject before exporting
//	}
//
// # Parallel Processing
//
// One Exporter runs one export at a time. For batches, ExporterPool gives
// each worker its own Exporter and browser:
//
//	pool := audit2pdf.NewExporterPool(audit2pdf.ResolvePoolSize(0))
//	defer pool.Close()
//
//	exp := pool.Acquire()
//	defer pool.Release(exp)
//
// # Error Handling
//
// The package exports sentinel errors for use with errors.Is:
//
//	art, err := exp.Export(ctx, v, domain, opts)
//	switch {
//	case errors.Is(err, audit2pdf.ErrCapture):
//	    // the view could not be prepared or rasterized
//	case errors.Is(err, audit2pdf.ErrSerialization):
//	    // the document could not be assembled
//	case errors.Is(err, audit2pdf.ErrExportInProgress):
//	    // another export is running on this Exporter
//	}
//
// UserMessage turns any of them into one end-user sentence with a hint.
package audit2pdf
