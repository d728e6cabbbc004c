package browser

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-audit2pdf/internal/report"
	"github.com/alnah/go-audit2pdf/internal/sections"
	"github.com/alnah/go-audit2pdf/internal/surface"
	"github.com/alnah/go-audit2pdf/internal/theme"
)

// viewportHeight is the emulated window height. Capture is not limited to it.
const viewportHeight = 800

const (
	fontsReadyJS  = `() => document.fonts.ready.then(() => true)`
	imagesReadyJS = `() => Promise.all(Array.from(document.images).map(img =>
		img.complete ? true : new Promise(resolve => { img.onload = img.onerror = () => resolve(true); })))`

	listSectionsJS = `(attr) => Array.from(document.querySelectorAll('[' + attr + ']')).map(el => el.getAttribute(attr))`

	sectionHiddenJS = `(attr, id) => {
		const el = document.querySelector('[' + attr + '="' + CSS.escape(id) + '"]');
		if (!el) return null;
		return getComputedStyle(el).display === 'none';
	}`

	// The previous inline display is kept on the node so showing it again
	// restores exactly what was there.
	setSectionHiddenJS = `(attr, id, hidden) => {
		const el = document.querySelector('[' + attr + '="' + CSS.escape(id) + '"]');
		if (!el) return false;
		if (hidden) {
			el.dataset.exportDisplay = el.style.display;
			el.style.display = 'none';
		} else {
			el.style.display = el.dataset.exportDisplay || '';
			delete el.dataset.exportDisplay;
		}
		return true;
	}`

	rootStateJS = `() => {
		const root = document.documentElement;
		if (!root) return null;
		return { has: root.hasAttribute('data-theme'), attr: root.getAttribute('data-theme') || '', dark: root.classList.contains('dark') };
	}`

	setThemeJS = `(name) => {
		const root = document.documentElement;
		if (!root) return false;
		if (name) {
			root.setAttribute('data-theme', name);
		} else {
			root.removeAttribute('data-theme');
		}
		root.classList.toggle('dark', name === 'dark');
		return true;
	}`

	setRootStateJS = `(has, attr, dark) => {
		const root = document.documentElement;
		if (!root) return false;
		if (has) {
			root.setAttribute('data-theme', attr);
		} else {
			root.removeAttribute('data-theme');
		}
		root.classList.toggle('dark', dark);
		return true;
	}`

	regionRectJS = `(id) => {
		const el = document.getElementById(id);
		if (!el) return null;
		const r = el.getBoundingClientRect();
		return { x: r.left + window.scrollX, y: r.top + window.scrollY, w: r.width, h: r.height };
	}`
)

// View is a report document rendered in a browser page. It implements
// theme.Target and surface.Capturer; its sections are registered at open.
type View struct {
	mu       sync.Mutex
	page     *rod.Page
	width    int
	closed   bool
	registry *sections.Registry

	// root is the theme markup last read by ActiveTheme. Setting the theme it
	// stands for writes it back verbatim.
	root *rootState
}

// rootState is the theme markup on the document root.
type rootState struct {
	HasAttr bool
	Attr    string
	Dark    bool
}

func (s rootState) theme() (theme.Theme, error) {
	return themeFromDOM(s.Attr, s.Dark)
}

func newView(page *rod.Page, width int) *View {
	return &View{page: page, width: width, registry: sections.NewRegistry()}
}

// Sections returns the registry of the view's exportable regions.
func (v *View) Sections() *sections.Registry {
	return v.registry
}

// Detached reports whether the view has been closed.
func (v *View) Detached() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Close tears the page down. Regions and capture report
// surface.ErrDetached afterwards.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true
	return v.page.Close()
}

// eval runs js on the live page, or fails with surface.ErrDetached.
func (v *View) eval(ctx context.Context, js string, args ...any) (*proto.RuntimeRemoteObject, error) {
	v.mu.Lock()
	closed := v.closed
	v.mu.Unlock()
	if closed {
		return nil, surface.ErrDetached
	}
	return v.page.Context(ctx).Eval(js, args...)
}

// scanSections registers every element carrying the section attribute.
func (v *View) scanSections(ctx context.Context) error {
	res, err := v.eval(ctx, listSectionsJS, report.SectionAttribute)
	if err != nil {
		return fmt.Errorf("%w: listing sections: %v", ErrPageLoad, err)
	}
	for _, id := range res.Value.Arr() {
		sid := id.Str()
		v.registry.Register(sid, &region{view: v, id: sid})
	}
	return nil
}

type region struct {
	view *View
	id   string
}

func (r *region) Hidden(ctx context.Context) (bool, error) {
	res, err := r.view.eval(ctx, sectionHiddenJS, report.SectionAttribute, r.id)
	if err != nil {
		return false, err
	}
	if res.Value.Nil() {
		return false, fmt.Errorf("section %q: %w", r.id, sections.ErrSectionMissing)
	}
	return res.Value.Bool(), nil
}

func (r *region) SetHidden(ctx context.Context, hidden bool) error {
	res, err := r.view.eval(ctx, setSectionHiddenJS, report.SectionAttribute, r.id, hidden)
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return fmt.Errorf("section %q: %w", r.id, sections.ErrSectionMissing)
	}
	return nil
}

// ActiveTheme reads the explicit theme from the document root and remembers
// its markup.
func (v *View) ActiveTheme(ctx context.Context) (theme.Theme, error) {
	res, err := v.eval(ctx, rootStateJS)
	if err != nil {
		return theme.Unset, err
	}
	if res.Value.Nil() {
		return theme.Unset, fmt.Errorf("%w: document has no root element", ErrPageLoad)
	}
	st := rootState{
		HasAttr: res.Value.Get("has").Bool(),
		Attr:    res.Value.Get("attr").Str(),
		Dark:    res.Value.Get("dark").Bool(),
	}
	v.mu.Lock()
	v.root = &st
	v.mu.Unlock()
	return st.theme()
}

// themeFromDOM maps the root attribute and dark class onto a Theme.
// An unrecognized attribute value is an error so the caller falls back to
// restoring no explicit theme.
func themeFromDOM(attr string, darkClass bool) (theme.Theme, error) {
	if attr == "" {
		if darkClass {
			return theme.Dark, nil
		}
		return theme.Unset, nil
	}
	return theme.Parse(attr)
}

// SetTheme applies t to the document root; theme.Unset clears it. When t is
// the theme last read by ActiveTheme, that markup is restored as it was.
func (v *View) SetTheme(ctx context.Context, t theme.Theme) error {
	var (
		res *proto.RuntimeRemoteObject
		err error
	)
	if st, ok := v.savedRoot(t); ok {
		res, err = v.eval(ctx, setRootStateJS, st.HasAttr, st.Attr, st.Dark)
	} else {
		res, err = v.eval(ctx, setThemeJS, string(t))
	}
	if err != nil {
		return err
	}
	if !res.Value.Bool() {
		return fmt.Errorf("%w: document has no root element", ErrPageLoad)
	}
	return nil
}

// savedRoot returns the remembered root markup when it stands for t.
func (v *View) savedRoot(t theme.Theme) (rootState, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.root == nil {
		return rootState{}, false
	}
	if got, err := v.root.theme(); err != nil || got != t {
		return rootState{}, false
	}
	return *v.root, true
}

// Capture screenshots the whole report region at the given device scale,
// including the part below the viewport. The emulated metrics are reset
// afterwards.
func (v *View) Capture(ctx context.Context, scale float64) (*surface.CaptureResult, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: invalid scale %v", ErrScreenshot, scale)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, surface.ErrDetached
	}

	page := v.page.Context(ctx)
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             v.width,
		Height:            viewportHeight,
		DeviceScaleFactor: scale,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("%w: setting device scale: %v", ErrScreenshot, err)
	}
	defer func() {
		_ = proto.EmulationSetDeviceMetricsOverride{
			Width:             v.width,
			Height:            viewportHeight,
			DeviceScaleFactor: 1,
		}.Call(v.page)
	}()

	res, err := page.Eval(regionRectJS, report.ContentID)
	if err != nil {
		return nil, fmt.Errorf("%w: measuring region: %v", ErrScreenshot, err)
	}
	if res.Value.Nil() {
		return nil, fmt.Errorf("%w: report region #%s not found", ErrScreenshot, report.ContentID)
	}
	rect := res.Value
	w, h := rect.Get("w").Num(), rect.Get("h").Num()
	if w <= 0 || h <= 0 {
		return nil, surface.ErrEmptyRegion
	}

	shot, err := proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      rect.Get("x").Num(),
			Y:      rect.Get("y").Num(),
			Width:  w,
			Height: h,
			Scale:  1,
		},
		FromSurface:           true,
		CaptureBeyondViewport: true,
	}.Call(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	img, err := imaging.Decode(bytes.NewReader(shot.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding screenshot: %v", ErrScreenshot, err)
	}
	return &surface.CaptureResult{Image: img, Scale: scale}, nil
}

// Compile-time interface checks.
var (
	_ theme.Target     = (*View)(nil)
	_ surface.Capturer = (*View)(nil)
	_ surface.Detacher = (*View)(nil)
	_ sections.Region  = (*region)(nil)
)
