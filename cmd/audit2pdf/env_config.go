package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-audit2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // AUDIT2PDF_CONFIG: config file path
	Timeout    time.Duration // AUDIT2PDF_TIMEOUT: capture timeout

	// Tier 2 - Output and branding
	OutputDir  string // AUDIT2PDF_OUTPUT_DIR: default output directory
	Format     string // AUDIT2PDF_FORMAT: pdf, zip
	HeaderText string // AUDIT2PDF_HEADER_TEXT: page header text
	FooterText string // AUDIT2PDF_FOOTER_TEXT: page footer text
	Logo       string // AUDIT2PDF_LOGO: logo path

	// Tier 3 - Extended
	PageSize  string // AUDIT2PDF_PAGE_SIZE: a4, letter
	Theme     string // AUDIT2PDF_THEME: light, dark
	Date      string // AUDIT2PDF_DATE: report date
	AssetPath string // AUDIT2PDF_ASSET_PATH: custom asset directory
	Workers   int    // AUDIT2PDF_WORKERS: parallel exports
}

// knownEnvVars lists valid AUDIT2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"AUDIT2PDF_CONFIG":  true,
	"AUDIT2PDF_TIMEOUT": true,
	// Tier 2 - Output and branding
	"AUDIT2PDF_OUTPUT_DIR":  true,
	"AUDIT2PDF_FORMAT":      true,
	"AUDIT2PDF_HEADER_TEXT": true,
	"AUDIT2PDF_FOOTER_TEXT": true,
	"AUDIT2PDF_LOGO":        true,
	// Tier 3 - Extended
	"AUDIT2PDF_PAGE_SIZE":  true,
	"AUDIT2PDF_THEME":      true,
	"AUDIT2PDF_DATE":       true,
	"AUDIT2PDF_ASSET_PATH": true,
	"AUDIT2PDF_WORKERS":    true,
	// Read by doctor
	"AUDIT2PDF_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("AUDIT2PDF_CONFIG"),
		OutputDir:  os.Getenv("AUDIT2PDF_OUTPUT_DIR"),
		Format:     os.Getenv("AUDIT2PDF_FORMAT"),
		HeaderText: os.Getenv("AUDIT2PDF_HEADER_TEXT"),
		FooterText: os.Getenv("AUDIT2PDF_FOOTER_TEXT"),
		Logo:       os.Getenv("AUDIT2PDF_LOGO"),
		PageSize:   os.Getenv("AUDIT2PDF_PAGE_SIZE"),
		Theme:      os.Getenv("AUDIT2PDF_THEME"),
		Date:       os.Getenv("AUDIT2PDF_DATE"),
		AssetPath:  os.Getenv("AUDIT2PDF_ASSET_PATH"),
	}

	if timeout := os.Getenv("AUDIT2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("AUDIT2PDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized AUDIT2PDF_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "AUDIT2PDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout > 0 && cfg.Capture.Timeout == "" {
		cfg.Capture.Timeout = env.Timeout.String()
	}

	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	// DefaultConfig presets pdf, so the env value wins unless the file chose zip.
	if env.Format != "" && (cfg.Output.Format == "" || cfg.Output.Format == config.FormatPDF) {
		cfg.Output.Format = env.Format
	}

	if env.HeaderText != "" && cfg.Branding.HeaderText == "" {
		cfg.Branding.HeaderText = env.HeaderText
	}
	if env.FooterText != "" && cfg.Branding.FooterText == "" {
		cfg.Branding.FooterText = env.FooterText
	}
	if env.Logo != "" && cfg.Branding.Logo == "" {
		cfg.Branding.Logo = env.Logo
	}

	if env.PageSize != "" && (cfg.Page.Size == "" || cfg.Page.Size == "a4") {
		cfg.Page.Size = env.PageSize
	}
	if env.Theme != "" && (cfg.Capture.Theme == "" || cfg.Capture.Theme == "light") {
		cfg.Capture.Theme = env.Theme
	}
	if env.Date != "" && cfg.Report.Date == "" {
		cfg.Report.Date = env.Date
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
}
