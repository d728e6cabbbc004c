package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	audit2pdf "github.com/alnah/go-audit2pdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock exporter and pool
// ---------------------------------------------------------------------------

type exportCall struct {
	URL    string
	Opts   audit2pdf.ExportOptions
	Report audit2pdf.ReportOptions
}

// mockExporter records calls and returns a named artifact for the report's
// domain, like the real exporter does.
type mockExporter struct {
	mu         sync.Mutex
	calls      []exportCall
	exportFunc func(ctx context.Context, rep *audit2pdf.Report) (*audit2pdf.Artifact, error)
}

func newMockExporter() *mockExporter {
	return &mockExporter{}
}

func (m *mockExporter) ExportReport(ctx context.Context, rep *audit2pdf.Report, opts audit2pdf.ExportOptions, ropts audit2pdf.ReportOptions) (*audit2pdf.Artifact, error) {
	m.mu.Lock()
	m.calls = append(m.calls, exportCall{URL: rep.URL, Opts: opts, Report: ropts})
	m.mu.Unlock()

	if m.exportFunc != nil {
		return m.exportFunc(ctx, rep)
	}

	name, err := audit2pdf.ArtifactName(rep.URL, "pdf")
	if err != nil {
		return nil, err
	}
	return &audit2pdf.Artifact{
		Name:      name,
		MediaType: "application/pdf",
		Data:      []byte("%PDF-1.7 mock"),
		PageCount: 2,
	}, nil
}

func (m *mockExporter) getCalls() []exportCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]exportCall{}, m.calls...)
}

// mockPool hands out the same mock exporter to every worker.
type mockPool struct {
	mock     *mockExporter
	size     int
	opts     []audit2pdf.Option
	mu       sync.Mutex
	acquired int
	closed   bool
}

var _ Pool = (*mockPool)(nil)

func (p *mockPool) Acquire() ReportExporter {
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.mock
}

func (p *mockPool) Release(ReportExporter) {}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// testEnv is an Environment whose pool factory records what it was asked
// to build.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	mock   *mockExporter
	mu     sync.Mutex
	pools  []*mockPool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		mock:   newMockExporter(),
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewLogger: func(level zapcore.Level) *zap.Logger {
			return consoleLogger(te.stderr, level)
		},
		NewPool: func(size int, opts ...audit2pdf.Option) Pool {
			p := &mockPool{mock: te.mock, size: size, opts: opts}
			te.mu.Lock()
			te.pools = append(te.pools, p)
			te.mu.Unlock()
			return p
		},
	}
	return te
}

func (te *testEnv) poolCount() int {
	te.mu.Lock()
	defer te.mu.Unlock()
	return len(te.pools)
}

// writeFiles creates files under a temp directory and returns its path.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("creating dir for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
	return dir
}

func reportYAML(url string) string {
	return "url: " + url + "\nsummary: Solid site.\nseo:\n  score: 64\n  comment: Titles are missing.\n"
}

// clearAuditEnv unsets AUDIT2PDF_* variables for one test.
func clearAuditEnv(t *testing.T) {
	t.Helper()
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
}
