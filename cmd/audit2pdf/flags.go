package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// sectionsNone selects no section: the export is a single branded page.
const sectionsNone = "none"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// brandingFlags holds header, footer, and logo flags.
type brandingFlags struct {
	header string
	footer string
	logo   string
}

// captureFlags holds rasterization flags.
type captureFlags struct {
	scale       float64
	layoutWidth int
	theme       string
	timeout     string
}

// reportFlags holds flags for the rendered report view.
type reportFlags struct {
	title string
	date  string
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	style     string
	assetPath string
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common   commonFlags
	output   string
	format   string
	pageSize string
	workers  int
	sections []string
	branding brandingFlags
	capture  captureFlags
	report   reportFlags
	assets   assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-export details")
}

func addBrandingFlags(fs *flag.FlagSet, f *brandingFlags) {
	fs.StringVar(&f.header, "header", "", "text in every page header")
	fs.StringVar(&f.footer, "footer", "", "text in every page footer")
	fs.StringVar(&f.logo, "logo", "", "PNG or JPEG logo drawn in every header")
}

func addCaptureFlags(fs *flag.FlagSet, f *captureFlags) {
	fs.Float64Var(&f.scale, "scale", 0, "capture scale (0 = default 2)")
	fs.IntVar(&f.layoutWidth, "layout-width", 0, "report layout width in CSS px (0 = default 1024)")
	fs.StringVar(&f.theme, "theme", "", "theme the report is captured in: light, dark")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "capture timeout (e.g., 30s, 2m)")
}

func addReportFlags(fs *flag.FlagSet, f *reportFlags) {
	fs.StringVar(&f.title, "title", "", "report heading (default \"Website Audit\")")
	fs.StringVar(&f.date, "date", "", "report date (\"auto\" = today)")
}

func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := &exportFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, zip")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: a4, letter")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel exports (0 = auto)")
	fs.StringSliceVarP(&f.sections, "sections", "s", nil, "section ids to export, or \"none\"")

	addCommonFlags(fs, &f.common)
	addBrandingFlags(fs, &f.branding)
	addCaptureFlags(fs, &f.capture)
	addReportFlags(fs, &f.report)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printExportUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
