// Package browser drives headless Chrome through go-rod: it opens rendered
// report views, captures them, and prints composed pages to PDF.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-audit2pdf/internal/hints"
	"github.com/alnah/go-audit2pdf/internal/layout"
	"github.com/alnah/go-audit2pdf/internal/process"
)

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("screenshot failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// DefaultTimeout bounds page loads when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// DefaultLayoutWidth is the CSS pixel width reports are laid out at.
const DefaultLayoutWidth = 1024

// Session owns one lazily launched Chrome instance.
// Safe for concurrent use; pages are independent.
type Session struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
	width    int
	logger   *zap.Logger
}

// NewSession creates a session; Chrome starts on first use.
// A nil logger disables logging.
func NewSession(timeout time.Duration, layoutWidth int, logger *zap.Logger) *Session {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if layoutWidth <= 0 {
		layoutWidth = DefaultLayoutWidth
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{timeout: timeout, width: layoutWidth, logger: logger}
}

// newLauncher configures Chrome from the environment.
// ROD_BROWSER_BIN selects a pre-installed browser; CI, containers and
// ROD_NO_SANDBOX=1 disable the sandbox.
func newLauncher() *launcher.Launcher {
	l := launcher.New().
		Set("hide-scrollbars").
		Set("force-color-profile", "srgb").
		Set("font-render-hinting", "none")

	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if noSandbox() {
		l = l.NoSandbox(true)
	}
	return l
}

func noSandbox() bool {
	return hints.InCI() || hints.IsInContainer() ||
		os.Getenv("ROD_NO_SANDBOX") == "1" ||
		os.Getenv("ROD_BROWSER_BIN") != ""
}

// ensureBrowser lazily launches and connects to Chrome. Caller holds s.mu.
func (s *Session) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	l := newLauncher()
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		s.kill(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	s.launcher = l
	s.browser = b
	s.logger.Debug("browser started", zap.Int("pid", l.PID()))
	return nil
}

func (s *Session) page(ctx context.Context, url string) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return page, nil
}

// loadTimeout returns the time left on ctx, or the session default.
func (s *Session) loadTimeout(ctx context.Context) (time.Duration, error) {
	if deadline, ok := ctx.Deadline(); ok {
		d := time.Until(deadline)
		if d <= 0 {
			return 0, context.DeadlineExceeded
		}
		return d, nil
	}
	return s.timeout, nil
}

// Open renders html in a new page laid out at the session width and returns
// the live view. The caller closes the view.
func (s *Session) Open(ctx context.Context, html string) (*View, error) {
	page, err := s.page(ctx, "about:blank")
	if err != nil {
		return nil, err
	}

	timeout, err := s.loadTimeout(ctx)
	if err != nil {
		_ = page.Close()
		return nil, err
	}

	p := page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             s.width,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}).Call(p); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageLoad, err)
	}
	if err := p.SetDocumentContent(html); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := p.Eval(fontsReadyJS); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: waiting for fonts: %v", ErrPageLoad, err)
	}

	v := newView(page, s.width)
	if err := v.scanSections(ctx); err != nil {
		_ = page.Close()
		return nil, err
	}
	return v, nil
}

// PrintFile opens a local HTML file and prints it to PDF using the CSS page
// size of the document, with no margins and backgrounds enabled.
func (s *Session) PrintFile(ctx context.Context, path string, f layout.PageFormat) ([]byte, error) {
	page, err := s.page(ctx, "file://"+path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = page.Close() }()

	timeout, err := s.loadTimeout(ctx)
	if err != nil {
		return nil, err
	}
	p := page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := p.Eval(imagesReadyJS); err != nil {
		return nil, fmt.Errorf("%w: waiting for images: %v", ErrPageLoad, err)
	}

	reader, err := p.PDF(&proto.PagePrintToPDF{
		PaperWidth:        floatPtr(f.WidthInches()),
		PaperHeight:       floatPtr(f.HeightInches()),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// Close shuts Chrome down. The session can be reused; Chrome is relaunched
// on next use.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.kill(s.launcher)
	s.browser = nil
	s.launcher = nil
	return err
}

// kill makes sure no Chrome helper processes outlive the session.
func (s *Session) kill(l *launcher.Launcher) {
	if l == nil {
		return
	}
	if err := process.KillGroup(l.PID()); err != nil {
		s.logger.Debug("killing chrome process group", zap.Error(err))
	}
	l.Kill()
	l.Cleanup()
}

func floatPtr(v float64) *float64 {
	return &v
}
