package audit2pdf

import (
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-audit2pdf/internal/assets"
	"github.com/alnah/go-audit2pdf/internal/browser"
	"github.com/alnah/go-audit2pdf/internal/layout"
	"github.com/alnah/go-audit2pdf/internal/render"
	"github.com/alnah/go-audit2pdf/internal/surface"
	"github.com/alnah/go-audit2pdf/internal/theme"
)

// Output formats.
const (
	FormatPDF = "pdf" // pages printed through Chrome
	FormatZIP = "zip" // PNG pages and a YAML manifest, composed in Go
)

// Capture defaults.
const (
	DefaultScale       = surface.DefaultScale
	DefaultLayoutWidth = browser.DefaultLayoutWidth
	defaultTimeout     = browser.DefaultTimeout
)

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout     time.Duration
	scale       float64
	layoutWidth int
	canonical   theme.Theme
	format      layout.PageFormat
	logoLimit   int64
	output      string
	assetPath   string
	style       string
	progress    func(Progress)
}

func defaultConfig() exporterConfig {
	return exporterConfig{
		timeout:     defaultTimeout,
		scale:       DefaultScale,
		layoutWidth: DefaultLayoutWidth,
		canonical:   theme.Light,
		format:      layout.A4,
		logoLimit:   DefaultLogoLimit,
		output:      FormatPDF,
		style:       assets.DefaultStyleName,
	}
}

// WithTimeout bounds each browser operation (page load, capture, print).
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("audit2pdf: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithScale sets the fixed device pixel ratio used for capture.
// Panics if scale is not a positive finite number.
func WithScale(scale float64) Option {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		panic("audit2pdf: WithScale must be positive and finite")
	}
	return func(e *Exporter) {
		e.cfg.scale = scale
	}
}

// WithLayoutWidth sets the CSS width the report is laid out at.
// Panics if px <= 0.
func WithLayoutWidth(px int) Option {
	if px <= 0 {
		panic("audit2pdf: WithLayoutWidth must be positive")
	}
	return func(e *Exporter) {
		e.cfg.layoutWidth = px
	}
}

// WithTheme sets the canonical theme reports are captured in: "light"
// (default) or "dark". Panics on any other value.
func WithTheme(name string) Option {
	t, err := theme.Parse(name)
	if err != nil || t == theme.Unset {
		panic("audit2pdf: WithTheme must be light or dark")
	}
	return func(e *Exporter) {
		e.cfg.canonical = t
	}
}

// WithPageSize selects the page preset: "a4" (default) or "letter".
// Panics on any other value.
func WithPageSize(name string) Option {
	f, err := layout.FormatByName(name)
	if err != nil {
		panic("audit2pdf: WithPageSize must be a4 or letter")
	}
	return func(e *Exporter) {
		e.cfg.format = f
	}
}

// WithLogoLimit sets the logo size ceiling in bytes.
// Panics if n <= 0.
func WithLogoLimit(n int64) Option {
	if n <= 0 {
		panic("audit2pdf: WithLogoLimit must be positive")
	}
	return func(e *Exporter) {
		e.cfg.logoLimit = n
	}
}

// WithFormat selects the output format: FormatPDF (default) or FormatZIP.
// Panics on any other value.
func WithFormat(format string) Option {
	format = strings.ToLower(format)
	if format != FormatPDF && format != FormatZIP {
		panic("audit2pdf: WithFormat must be pdf or zip")
	}
	return func(e *Exporter) {
		e.cfg.output = format
	}
}

// WithAssetPath overrides built-in templates and styles with files under
// dir, falling back to the built-in ones for anything missing.
func WithAssetPath(dir string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = dir
	}
}

// WithStyle selects the report stylesheet by name.
func WithStyle(name string) Option {
	return func(e *Exporter) {
		e.cfg.style = name
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithProgress registers a callback invoked synchronously on every state
// transition. It must not call back into the Exporter.
func WithProgress(fn func(Progress)) Option {
	return func(e *Exporter) {
		e.cfg.progress = fn
	}
}

// withWriter replaces the serializer (tests).
func withWriter(w render.Writer) Option {
	return func(e *Exporter) {
		e.writer = w
	}
}
