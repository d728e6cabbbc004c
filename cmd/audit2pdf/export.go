package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	audit2pdf "github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/config"
	"github.com/alnah/go-audit2pdf/internal/dateutil"
	"github.com/alnah/go-audit2pdf/internal/hints"
)

// Worker limits for --workers.
const maxWorkers = 32

// sectionsAll selects every known section, pitch and call notes included.
const sectionsAll = "all"

// Sentinel errors for the export command.
var (
	ErrNoInput        = errors.New("no audit report specified")
	ErrInvalidWorkers = errors.New("invalid worker count")
	ErrWriteOutput    = errors.New("failed to write export")
	ErrExportsFailed  = errors.New("export(s) failed")
)

// exportParams is shared by every export in a batch.
type exportParams struct {
	export audit2pdf.ExportOptions
	report audit2pdf.ReportOptions
	ext    string
}

// runExportCmd runs the export command and returns an exit code.
func runExportCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseExportFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	logger := newLogger(env, flags.common.quiet, flags.common.verbose)
	defer func() { _ = logger.Sync() }()

	if err := runExport(ctx, positional, flags, env, logger); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runExport resolves configuration, exports every report, and writes the
// artifacts.
func runExport(ctx context.Context, positional []string, flags *exportFlags, env *Environment, logger *zap.Logger) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	date, err := dateutil.ResolveDate(cfg.Report.Date, env.Now())
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}

	// A bad logo fails here, before any browser starts.
	var logo *audit2pdf.Logo
	if cfg.Branding.Logo != "" {
		logo, err = audit2pdf.LoadLogo(cfg.Branding.Logo, audit2pdf.DefaultLogoLimit)
		if err != nil {
			return err
		}
	}

	selected, unknown := resolveSelection(flags.sections, cfg.Sections.Include)
	if len(unknown) > 0 {
		logger.Warn("ignoring unknown sections: "+strings.Join(unknown, ", ")+hints.ForUnknownSections(audit2pdf.SectionIDs()))
	}

	ext := outputFormat(cfg)
	jobs, err := discoverReports(positional, resolveOutput(flags.output, cfg), ext)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	size := min(audit2pdf.ResolvePoolSize(workers), len(jobs))
	logger.Debug("starting export", zap.Int("reports", len(jobs)), zap.Int("workers", size))

	pool := env.NewPool(size, exporterOptions(cfg, flags, logger)...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing exporters", zap.Error(err))
		}
	}()

	params := &exportParams{
		export: audit2pdf.ExportOptions{
			SelectedSections: selected,
			HeaderText:       cfg.Branding.HeaderText,
			FooterText:       cfg.Branding.FooterText,
			Logo:             logo,
		},
		report: audit2pdf.ReportOptions{
			Title: cfg.Report.Title,
			Date:  date,
		},
		ext: ext,
	}

	results := exportBatch(ctx, pool, jobs, params)
	return printResults(results, flags.common.quiet, flags.common.verbose, env, logger)
}

// loadConfig loads the named config, falling back to AUDIT2PDF_CONFIG and
// then to defaults.
func loadConfig(name string, env *envConfig) (*config.Config, error) {
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *exportFlags, cfg *config.Config) {
	if flags.format != "" {
		cfg.Output.Format = flags.format
	}
	if flags.pageSize != "" {
		cfg.Page.Size = flags.pageSize
	}

	if flags.branding.header != "" {
		cfg.Branding.HeaderText = flags.branding.header
	}
	if flags.branding.footer != "" {
		cfg.Branding.FooterText = flags.branding.footer
	}
	if flags.branding.logo != "" {
		cfg.Branding.Logo = flags.branding.logo
	}

	if flags.capture.scale != 0 {
		cfg.Capture.Scale = flags.capture.scale
	}
	if flags.capture.layoutWidth != 0 {
		cfg.Capture.LayoutWidth = flags.capture.layoutWidth
	}
	if flags.capture.theme != "" {
		cfg.Capture.Theme = flags.capture.theme
	}
	if flags.capture.timeout != "" {
		cfg.Capture.Timeout = flags.capture.timeout
	}

	if flags.report.title != "" {
		cfg.Report.Title = flags.report.title
	}
	if flags.report.date != "" {
		cfg.Report.Date = flags.report.date
	}

	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// exporterOptions maps a validated config onto exporter options.
func exporterOptions(cfg *config.Config, flags *exportFlags, logger *zap.Logger) []audit2pdf.Option {
	opts := []audit2pdf.Option{
		audit2pdf.WithLogger(logger),
		audit2pdf.WithFormat(outputFormat(cfg)),
		audit2pdf.WithPageSize(cfg.Page.Size),
	}
	if d := cfg.Timeout(); d > 0 {
		opts = append(opts, audit2pdf.WithTimeout(d))
	}
	if cfg.Capture.Scale > 0 {
		opts = append(opts, audit2pdf.WithScale(cfg.Capture.Scale))
	}
	if cfg.Capture.LayoutWidth > 0 {
		opts = append(opts, audit2pdf.WithLayoutWidth(cfg.Capture.LayoutWidth))
	}
	if cfg.Capture.Theme != "" {
		opts = append(opts, audit2pdf.WithTheme(cfg.Capture.Theme))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, audit2pdf.WithAssetPath(cfg.Assets.BasePath))
	}
	if flags.assets.style != "" {
		opts = append(opts, audit2pdf.WithStyle(flags.assets.style))
	}
	return opts
}

// outputFormat returns the lower-cased output format, pdf when unset.
func outputFormat(cfg *config.Config) string {
	if cfg.Output.Format == "" {
		return config.FormatPDF
	}
	return strings.ToLower(cfg.Output.Format)
}

// resolveSelection returns the section ids to export and any ids nobody
// knows. Flags win over config; neither gives the default selection.
func resolveSelection(flagIDs, cfgIDs []string) (selected, unknown []string) {
	ids := flagIDs
	if len(ids) == 0 {
		ids = cfgIDs
	}
	if len(ids) == 0 {
		return audit2pdf.DefaultSections(), nil
	}

	known := audit2pdf.SectionIDs()
	selected = []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		switch {
		case id == "":
		case strings.EqualFold(id, sectionsNone):
			return []string{}, unknown
		case strings.EqualFold(id, sectionsAll):
			return known, unknown
		case slices.Contains(known, id):
			if !slices.Contains(selected, id) {
				selected = append(selected, id)
			}
		default:
			unknown = append(unknown, id)
		}
	}
	return selected, unknown
}

// resolveOutput returns the output flag or the configured directory.
func resolveOutput(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.Dir
}

// validateWorkers checks the --workers value.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkers, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidWorkers, n, maxWorkers)
	}
	return nil
}

// exportResult holds the outcome of a single export.
type exportResult struct {
	InputPath  string
	OutputPath string
	PageCount  int
	Err        error
	Duration   time.Duration
}

// printResults reports every result and returns an error wrapping the first
// failure when any export failed.
func printResults(results []exportResult, quiet, verbose bool, env *Environment, logger *zap.Logger) error {
	var failed int
	var firstErr error

	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %s\n", r.InputPath, audit2pdf.UserMessage(r.Err))
			logger.Debug("export failed", zap.String("input", r.InputPath), zap.Error(r.Err))
			continue
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n",
				r.InputPath, r.OutputPath, r.PageCount, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d %w: %w", failed, ErrExportsFailed, firstErr)
	}
	return nil
}

// ensureDir creates dir when it is missing.
func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating %s: %w%s", ErrWriteOutput, dir, err, hints.ForOutputDirectory())
	}
	return nil
}

// isFileTarget reports whether output names a file of the given extension.
func isFileTarget(output, ext string) bool {
	return strings.EqualFold(filepath.Ext(output), "."+ext)
}
