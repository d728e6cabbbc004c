package audit2pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-audit2pdf/internal/assets"
	"github.com/alnah/go-audit2pdf/internal/browser"
	"github.com/alnah/go-audit2pdf/internal/layout"
	"github.com/alnah/go-audit2pdf/internal/render"
	"github.com/alnah/go-audit2pdf/internal/report"
	"github.com/alnah/go-audit2pdf/internal/sections"
	"github.com/alnah/go-audit2pdf/internal/surface"
	"github.com/alnah/go-audit2pdf/internal/theme"
)

// View is a rendered report an Exporter can borrow for one export.
// ReportView implements it.
type View interface {
	theme.Target
	surface.Capturer
	surface.Detacher
	// Sections returns the registry of exportable regions, kept in sync by
	// the view.
	Sections() *sections.Registry
}

// Compile-time interface checks.
var (
	_ View           = (*ReportView)(nil)
	_ render.Printer = (*browser.Session)(nil)
)

// Exporter turns a rendered report into a paginated, branded document.
// One export runs at a time; a concurrent call fails with
// ErrExportInProgress. Safe for concurrent use.
type Exporter struct {
	cfg     exporterConfig
	logger  *zap.Logger
	session *browser.Session
	writer  render.Writer

	setupOnce sync.Once
	setupErr  error
	renderer  *report.Renderer

	busy  atomic.Bool
	state atomic.Int32
}

// NewExporter creates an Exporter with default configuration.
// Chrome is only started when a report is opened or a PDF is printed.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		cfg:    defaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.session = browser.NewSession(e.cfg.timeout, e.cfg.layoutWidth, e.logger)
	return e
}

// State returns the current step of the export state machine.
func (e *Exporter) State() State {
	return State(e.state.Load())
}

// Close releases the browser. The Exporter can still be used; Chrome is
// relaunched on demand.
func (e *Exporter) Close() error {
	return e.session.Close()
}

// setup loads templates and styles and builds the writer on first use.
func (e *Exporter) setup() error {
	e.setupOnce.Do(func() {
		e.setupErr = e.loadAssets()
	})
	return e.setupErr
}

func (e *Exporter) loadAssets() error {
	resolver, err := assets.NewAssetResolver(e.cfg.assetPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	ts, err := resolver.LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	css, err := resolver.LoadStyle(e.cfg.style)
	if err != nil {
		return fmt.Errorf("loading style: %w", err)
	}
	if e.renderer, err = report.NewRenderer(ts, css); err != nil {
		return err
	}

	if e.writer != nil {
		return nil
	}
	switch e.cfg.output {
	case FormatZIP:
		e.writer = render.NewArchiveWriter()
	default:
		w, err := render.NewPDFWriter(e.session, ts)
		if err != nil {
			return err
		}
		e.writer = w
	}
	return nil
}

// OpenReport renders rep and opens it in the export browser. The caller
// owns the returned view and must close it.
func (e *Exporter) OpenReport(ctx context.Context, rep *Report, opts ReportOptions) (*ReportView, error) {
	if err := e.setup(); err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, fmt.Errorf("%w: nil report", ErrInvalidReport)
	}
	if err := rep.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	initial, err := theme.Parse(opts.Theme)
	if err != nil {
		return nil, err
	}

	html, err := e.renderer.Render(ctx, rep, report.RenderOptions{
		Title: opts.Title,
		Date:  opts.Date,
		Theme: string(initial),
	})
	if err != nil {
		return nil, err
	}
	return e.session.Open(ctx, html)
}

// ExportReport renders rep, exports it and closes the view.
func (e *Exporter) ExportReport(ctx context.Context, rep *Report, opts ExportOptions, ropts ReportOptions) (*Artifact, error) {
	if err := opts.Logo.validate(e.cfg.logoLimit); err != nil {
		return nil, err
	}
	v, err := e.OpenReport(ctx, rep, ropts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = v.Close() }()

	return e.Export(ctx, v, rep.URL, opts)
}

// Export captures v and serializes it as a document named after domain.
//
// The view is switched to the canonical theme and every section not in
// opts.SelectedSections is hidden for the duration of the capture; both are
// put back before Export returns, whatever the outcome. Restore failures are
// logged, never returned. If the view is torn down mid-export the restore is
// skipped and ErrViewDetached is returned without an artifact.
func (e *Exporter) Export(ctx context.Context, v View, domain string, opts ExportOptions) (*Artifact, error) {
	if err := e.setup(); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNilView
	}
	name, err := ArtifactName(domain, e.writer.Extension())
	if err != nil {
		return nil, err
	}
	if err := opts.Logo.validate(e.cfg.logoLimit); err != nil {
		return nil, err
	}
	if v.Detached() {
		return nil, ErrViewDetached
	}

	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	id := uuid.NewString()
	r := &exportRun{
		id:   id,
		view: v,
		name: name,
		log:  e.logger.With(zap.String("export_id", id), zap.String("artifact", name)),
	}
	return e.run(ctx, r, opts)
}

// exportRun is the per-call state of one export.
type exportRun struct {
	id    string
	view  View
	name  string
	log   *zap.Logger
	state State
	undo  []func(context.Context) error // applied in reverse
}

func (e *Exporter) transition(r *exportRun, s State, err error) {
	r.state = s
	e.state.Store(int32(s))
	r.log.Debug("export state", zap.Stringer("state", s))
	if e.cfg.progress != nil {
		e.cfg.progress(Progress{ExportID: r.id, State: s, Err: err})
	}
}

func (e *Exporter) run(ctx context.Context, r *exportRun, opts ExportOptions) (art *Artifact, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic while %s: %v", failureKind(r.state), r.state, p)
			art = nil
		}

		// Only the view itself can say it is gone. A region error that
		// mentions detachment on a live page still gets a full restore.
		if r.view.Detached() {
			r.log.Warn("report view detached; restore skipped")
			art = nil
			if err == nil {
				err = ErrViewDetached
			} else if !errors.Is(err, ErrViewDetached) {
				err = fmt.Errorf("%w: %w", ErrViewDetached, err)
			}
		} else {
			e.restore(ctx, r)
		}

		if err != nil {
			r.log.Error("export failed", zap.Stringer("state", r.state), zap.Error(err))
			e.transition(r, StateFailed, err)
		} else {
			r.log.Info("export done",
				zap.Int("pages", art.PageCount),
				zap.Int("bytes", len(art.Data)),
				zap.Duration("elapsed", time.Since(start)))
			e.transition(r, StateDone, nil)
		}
		e.transition(r, StateIdle, nil)
	}()

	if err := r.check(ctx); err != nil {
		return nil, err
	}

	// Preparing: canonical theme, then section visibility.
	e.transition(r, StatePreparing, nil)
	themeRestore, err := theme.NewNormalizer(e.cfg.canonical).Apply(ctx, r.view)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	r.undo = append(r.undo, themeRestore.Restore)

	reg := r.view.Sections()
	if reg == nil {
		reg = sections.NewRegistry()
	}
	selected := sections.Select(opts.SelectedSections...)
	filterRestore, err := sections.Apply(ctx, reg, selected)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	r.undo = append(r.undo, filterRestore.Restore)
	bodyless := !anySelected(reg.IDs(), selected)
	r.log.Debug("view prepared",
		zap.Stringer("theme", e.cfg.canonical),
		zap.Strings("hidden", filterRestore.Hid()),
		zap.Bool("bodyless", bodyless))

	if err := r.check(ctx); err != nil {
		return nil, err
	}

	// Capturing.
	e.transition(r, StateCapturing, nil)
	res, err := e.capture(ctx, r.view, bodyless)
	if err != nil {
		return nil, err
	}

	if err := r.check(ctx); err != nil {
		return nil, err
	}

	// Paginating.
	e.transition(r, StatePaginating, nil)
	plan, err := layout.Paginate(res.HeightPx(), res.WidthPx(), e.cfg.format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	doc := &render.Document{
		Title:  strings.TrimSuffix(r.name, "."+e.writer.Extension()),
		Source: res.Image,
		Plan:   plan,
		Overlays: layout.ComputeOverlays(plan.PageCount(), layout.Branding{
			HeaderText: opts.HeaderText,
			FooterText: opts.FooterText,
			HasLogo:    opts.Logo != nil,
		}),
	}
	if opts.Logo != nil {
		doc.Logo = opts.Logo.Image
	}
	r.log.Debug("paginated",
		zap.Int("width_px", plan.WidthPx),
		zap.Int("height_px", plan.HeightPx),
		zap.Int("content_height_px", plan.ContentHeightPx),
		zap.Int("pages", plan.PageCount()))

	// Serializing.
	e.transition(r, StateSerializing, nil)
	data, err := e.writer.Write(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	return &Artifact{
		Name:      r.name,
		MediaType: e.writer.MediaType(),
		Data:      data,
		PageCount: plan.PageCount(),
		ExportID:  r.id,
	}, nil
}

// capture rasterizes the prepared view. A bodyless export keeps only the
// captured width: its document is a single branded page with no content.
func (e *Exporter) capture(ctx context.Context, v View, bodyless bool) (*surface.CaptureResult, error) {
	captureCtx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()

	res, err := v.Capture(captureCtx, e.cfg.scale)
	switch {
	case err != nil && bodyless && errors.Is(err, surface.ErrEmptyRegion):
		width := int(math.Round(float64(e.cfg.layoutWidth) * e.cfg.scale))
		return &surface.CaptureResult{Image: emptyBitmap(width), Scale: e.cfg.scale}, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	case res == nil || res.Image == nil:
		return nil, fmt.Errorf("%w: no bitmap returned", ErrCapture)
	case bodyless:
		return &surface.CaptureResult{Image: emptyBitmap(res.WidthPx()), Scale: res.Scale}, nil
	case res.HeightPx() == 0 || res.WidthPx() == 0:
		return nil, fmt.Errorf("%w: %w", ErrCapture, surface.ErrEmptyRegion)
	}
	return res, nil
}

// restore undoes the preparation steps in reverse order: visibility first,
// then theme. It runs even when ctx is cancelled.
func (e *Exporter) restore(ctx context.Context, r *exportRun) {
	if len(r.undo) == 0 {
		return
	}
	restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.timeout)
	defer cancel()

	var errs error
	for i := len(r.undo) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, r.undo[i](restoreCtx))
	}
	r.undo = nil
	if errs != nil {
		r.log.Warn("restoring report view", zap.Error(fmt.Errorf("%w: %v", ErrRestore, errs)))
	}
}

// check stops the export between steps on cancellation or teardown.
func (r *exportRun) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.view.Detached() {
		return ErrViewDetached
	}
	return nil
}

// failureKind maps the step a panic happened in to its error category.
func failureKind(s State) error {
	if s >= StatePaginating {
		return ErrSerialization
	}
	return ErrCapture
}

func anySelected(ids []string, selected sections.Selection) bool {
	for _, id := range ids {
		if selected.Has(id) {
			return true
		}
	}
	return false
}

func emptyBitmap(width int) image.Image {
	return image.NewNRGBA(image.Rect(0, 0, width, 0))
}
