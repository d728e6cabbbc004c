package assets

// TemplateSet holds the HTML templates used for one export.
type TemplateSet struct {
	Name   string // identifier (name or directory path)
	Report string // report view, parsed with html/template
	Pages  string // page layout for the print backend, parsed with html/template
}

// Template file names inside a template set directory.
const (
	reportTemplateFile = "report.html"
	pagesTemplateFile  = "pages.html"
)

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in report style.
const DefaultStyleName = "default"
