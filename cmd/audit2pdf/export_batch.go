package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	audit2pdf "github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// reportExtensions are the file types picked up from an input directory.
var reportExtensions = []string{".yaml", ".yml", ".json"}

// exportJob is one report to export.
type exportJob struct {
	InputPath  string
	OutputFile string // explicit target file; empty means OutputDir/<artifact name>
	OutputDir  string
}

// discoverReports expands the inputs into jobs. Directories contribute their
// report files, non-recursively. An output with the format's extension is a
// file target and only allowed for a single report.
func discoverReports(inputs []string, output, ext string) ([]exportJob, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var paths []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if !info.IsDir() {
			paths = append(paths, in)
			continue
		}

		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, fmt.Errorf("reading input directory: %w", err)
		}
		found := 0
		for _, e := range entries {
			if e.IsDir() || !isReportFile(e.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(in, e.Name()))
			found++
		}
		if found == 0 {
			return nil, fmt.Errorf("%w: no audit reports in %s", ErrNoInput, in)
		}
	}

	if isFileTarget(output, ext) {
		if len(paths) > 1 {
			return nil, fmt.Errorf("%w: --output %s names a file but %d reports were given", ErrNoInput, output, len(paths))
		}
		return []exportJob{{InputPath: paths[0], OutputFile: output}}, nil
	}

	jobs := make([]exportJob, len(paths))
	for i, p := range paths {
		jobs[i] = exportJob{InputPath: p, OutputDir: output}
	}
	return jobs, nil
}

func isReportFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range reportExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// outputNames hands out artifact paths so two reports for the same domain
// in one batch do not overwrite each other.
type outputNames struct {
	mu   sync.Mutex
	used map[string]bool
}

func newOutputNames() *outputNames {
	return &outputNames{used: make(map[string]bool)}
}

// claim returns path, or path with a "-N" suffix before the extension when
// path was already handed out.
func (n *outputNames) claim(path string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	candidate := path
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; n.used[candidate]; i++ {
		candidate = base + "-" + strconv.Itoa(i) + ext
	}
	n.used[candidate] = true
	return candidate
}

// exportBatch exports every job, at most pool.Size() at a time. One failed
// export never stops the others.
func exportBatch(ctx context.Context, pool Pool, jobs []exportJob, params *exportParams) []exportResult {
	if len(jobs) == 0 {
		return nil
	}

	results := make([]exportResult, len(jobs))
	names := newOutputNames()

	var g errgroup.Group
	g.SetLimit(max(pool.Size(), 1))
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = exportResult{InputPath: job.InputPath, Err: err}
				return nil
			}
			exp := pool.Acquire()
			defer pool.Release(exp)
			results[i] = exportFile(ctx, exp, job, params, names)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// exportFile loads one report, exports it, and writes the artifact.
func exportFile(ctx context.Context, exp ReportExporter, job exportJob, params *exportParams, names *outputNames) exportResult {
	start := time.Now()
	result := exportResult{InputPath: job.InputPath}
	fail := func(err error) exportResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	rep, err := audit2pdf.LoadReport(job.InputPath)
	if err != nil {
		return fail(err)
	}

	art, err := exp.ExportReport(ctx, rep, params.export, params.report)
	if err != nil {
		return fail(err)
	}

	path := job.OutputFile
	if path == "" {
		path = names.claim(filepath.Join(job.OutputDir, art.Name))
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fail(err)
	}
	// #nosec G306 -- exports are meant to be readable
	if err := fileutil.WriteFileAtomic(path, art.Data, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	result.OutputPath = path
	result.PageCount = art.PageCount
	result.Duration = time.Since(start)
	return result
}
