package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-audit2pdf/internal/dateutil"
	"github.com/alnah/go-audit2pdf/internal/fileutil"
	"github.com/alnah/go-audit2pdf/internal/layout"
	"github.com/alnah/go-audit2pdf/internal/theme"
	"github.com/alnah/go-audit2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits for multi-tenant safety.
const (
	MaxHeaderTextLength = 200  // Agency name or tagline
	MaxFooterTextLength = 500  // Footer/free-form text
	MaxPathLength       = 4096 // Logo, asset and output paths
	MaxDateLength       = 40   // "auto:DD/MM/YYYY" or "December 31, 2025"
	MaxTitleLength      = 200  // Report heading
	MaxSectionIDLength  = 64   // Section identifiers
	MaxSections         = 32   // Entries in sections.include
)

// Capture limits.
const (
	MaxScale       = 4.0
	MinLayoutWidth = 320
	MaxLayoutWidth = 4096
)

// Supported output formats.
const (
	FormatPDF = "pdf"
	FormatZIP = "zip"
)

// Config holds all configuration for report export.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Report   ReportConfig   `yaml:"report"`
	Branding BrandingConfig `yaml:"branding"`
	Sections SectionsConfig `yaml:"sections"`
	Capture  CaptureConfig  `yaml:"capture"`
	Page     PageConfig     `yaml:"page"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // Default output directory (empty = current directory)
	Format string `yaml:"format"` // "pdf" or "zip" (default: "pdf")
}

// ReportConfig defines the report view.
type ReportConfig struct {
	Title string `yaml:"title"` // Heading (empty = "Website Audit")
	Date  string `yaml:"date"`  // "auto", "auto:FORMAT" or literal text
}

// BrandingConfig defines the header and footer drawn on every page.
type BrandingConfig struct {
	HeaderText string `yaml:"headerText"`
	FooterText string `yaml:"footerText"`
	Logo       string `yaml:"logo"` // PNG or JPEG path
}

// SectionsConfig defines which report sections are exported.
type SectionsConfig struct {
	Include []string `yaml:"include"` // Empty = default selection
}

// CaptureConfig defines rasterization settings.
type CaptureConfig struct {
	Scale       float64 `yaml:"scale"`       // Device pixel ratio (default: 2)
	LayoutWidth int     `yaml:"layoutWidth"` // CSS px (default: 1024)
	Theme       string  `yaml:"theme"`       // "light" or "dark" (default: "light")
	Timeout     string  `yaml:"timeout"`     // Go duration (default: "30s")
}

// PageConfig defines the output page format.
type PageConfig struct {
	Size string `yaml:"size"` // "a4" or "letter" (default: "a4")
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Output.Format) {
	case "", FormatPDF, FormatZIP:
		// valid
	default:
		return fmt.Errorf("%w: output.format %q (must be pdf or zip)", ErrInvalidField, c.Output.Format)
	}

	if err := validateFieldLength("report.title", c.Report.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("report.date", c.Report.Date, MaxDateLength); err != nil {
		return err
	}
	if strings.HasPrefix(strings.ToLower(c.Report.Date), "auto") {
		if _, err := dateutil.ResolveDate(c.Report.Date, time.Now()); err != nil {
			return fmt.Errorf("%w: report.date: %v", ErrInvalidField, err)
		}
	}

	if err := validateFieldLength("branding.headerText", c.Branding.HeaderText, MaxHeaderTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("branding.footerText", c.Branding.FooterText, MaxFooterTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("branding.logo", c.Branding.Logo, MaxPathLength); err != nil {
		return err
	}

	if len(c.Sections.Include) > MaxSections {
		return fmt.Errorf("%w: sections.include (%d entries, max %d)", ErrFieldTooLong, len(c.Sections.Include), MaxSections)
	}
	for i, id := range c.Sections.Include {
		if err := validateFieldLength(fmt.Sprintf("sections.include[%d]", i), id, MaxSectionIDLength); err != nil {
			return err
		}
	}

	if c.Capture.Scale < 0 || c.Capture.Scale > MaxScale {
		return fmt.Errorf("%w: capture.scale must be between 0 and %.0f, got %.2f", ErrInvalidField, MaxScale, c.Capture.Scale)
	}
	if c.Capture.LayoutWidth != 0 && (c.Capture.LayoutWidth < MinLayoutWidth || c.Capture.LayoutWidth > MaxLayoutWidth) {
		return fmt.Errorf("%w: capture.layoutWidth must be between %d and %d, got %d",
			ErrInvalidField, MinLayoutWidth, MaxLayoutWidth, c.Capture.LayoutWidth)
	}
	if c.Capture.Theme != "" {
		th, err := theme.Parse(c.Capture.Theme)
		if err != nil || th == theme.Unset {
			return fmt.Errorf("%w: capture.theme %q (must be light or dark)", ErrInvalidField, c.Capture.Theme)
		}
	}
	if c.Capture.Timeout != "" {
		d, err := time.ParseDuration(c.Capture.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: capture.timeout %q (must be a positive duration like 30s)", ErrInvalidField, c.Capture.Timeout)
		}
	}

	if _, err := layout.FormatByName(c.Page.Size); err != nil {
		return fmt.Errorf("%w: page.size: %v", ErrInvalidField, err)
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: PDF output, A4 pages,
// default sections, no branding.
func DefaultConfig() *Config {
	return &Config{
		Output:  OutputConfig{Format: FormatPDF},
		Capture: CaptureConfig{Theme: theme.Light.String()},
		Page:    PageConfig{Size: "a4"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := yamlutil.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		if errors.Is(err, yamlutil.ErrInputTooLarge) {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// PageFormat returns the layout preset named by page.size.
func (c *Config) PageFormat() (layout.PageFormat, error) {
	return layout.FormatByName(c.Page.Size)
}

// Timeout returns capture.timeout, or 0 when unset.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Capture.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-audit2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-audit2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
