package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-audit2pdf/internal/assets"
	"github.com/alnah/go-audit2pdf/internal/fileutil"
	"github.com/alnah/go-audit2pdf/internal/hints"
)

// checkStatus is the outcome of one doctor check.
type checkStatus string

const (
	checkOK   checkStatus = "ok"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// browserVersionTimeout bounds "chrome --version".
const browserVersionTimeout = 10 * time.Second

type doctorCheck struct {
	Name   string      `json:"name"`
	Status checkStatus `json:"status"`
	Detail string      `json:"detail"`
	Hint   string      `json:"hint,omitempty"`
}

// doctorReport is what "audit2pdf doctor" prints, as text or JSON.
type doctorReport struct {
	Ready    bool          `json:"ready"`
	Platform string        `json:"platform"`
	Checks   []doctorCheck `json:"checks"`
}

func (r *doctorReport) warnings() int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == checkWarn {
			n++
		}
	}
	return n
}

// runDoctorCmd checks that exports can run here. A failed check exits with
// ExitGeneral; warnings alone do not.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOut := fs.Bool("json", false, "print the report as JSON")
	assetPath := fs.String("asset-path", os.Getenv("AUDIT2PDF_ASSET_PATH"), "custom asset directory to check")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	report := runDoctor(*assetPath)
	if *jsonOut {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if !report.Ready {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(assetPath string) *doctorReport {
	r := &doctorReport{
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Checks: []doctorCheck{
			checkBrowser(),
			checkSandbox(),
			checkTempDir(),
			checkAssets(assetPath),
		},
	}
	r.Ready = true
	for _, c := range r.Checks {
		if c.Status == checkFail {
			r.Ready = false
		}
	}
	return r
}

// checkBrowser finds the Chrome binary used for capture and PDF printing.
func checkBrowser() doctorCheck {
	c := doctorCheck{Name: "browser"}

	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin == "" {
		var found bool
		if bin, found = launcher.LookPath(); !found {
			c.Status, c.Detail = checkFail, "Chrome/Chromium not found"
			c.Hint = "install Chrome or Chromium, or set ROD_BROWSER_BIN"
			return c
		}
	}
	if _, err := os.Stat(bin); err != nil {
		c.Status, c.Detail = checkFail, fmt.Sprintf("%s: %v", bin, err)
		c.Hint = "point ROD_BROWSER_BIN at an existing binary"
		return c
	}

	ctx, cancel := context.WithTimeout(context.Background(), browserVersionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, bin, "--version").Output() // #nosec G204 -- path from launcher or ROD_BROWSER_BIN
	if err != nil {
		c.Status, c.Detail = checkWarn, fmt.Sprintf("%s (version unknown: %v)", bin, err)
		return c
	}
	c.Status, c.Detail = checkOK, fmt.Sprintf("%s at %s", strings.TrimSpace(string(out)), bin)
	return c
}

// checkSandbox warns when Chrome would start sandboxed where it usually
// cannot: containers and CI runners.
func checkSandbox() doctorCheck {
	c := doctorCheck{Name: "sandbox", Status: checkOK}

	if os.Getenv("ROD_NO_SANDBOX") == "1" {
		c.Detail = "disabled (ROD_NO_SANDBOX=1)"
		return c
	}
	where := ""
	if signal := containerSignal(); signal != "" {
		where = "container (" + signal + ")"
	} else if hints.InCI() {
		where = "CI"
	}
	if where == "" {
		c.Detail = "enabled"
		return c
	}
	c.Status, c.Detail = checkWarn, "enabled inside "+where
	c.Hint = "set ROD_NO_SANDBOX=1"
	return c
}

// containerSignal names the first container marker found, or "".
func containerSignal() string {
	switch {
	case os.Getenv("AUDIT2PDF_CONTAINER") == "1":
		return "AUDIT2PDF_CONTAINER=1"
	case hints.IsInContainer():
		return "/.dockerenv"
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return "KUBERNETES_SERVICE_HOST"
	}
	return ""
}

// checkTempDir writes a page file the way the PDF writer does.
func checkTempDir() doctorCheck {
	c := doctorCheck{Name: "temp"}

	dir, cleanup, err := fileutil.MakeTempDir("audit2pdf-doctor-")
	if err == nil {
		defer cleanup()
		err = fileutil.WriteFileAtomic(filepath.Join(dir, "page-001.png"), []byte("ok"), filePermissions)
	}
	if err != nil {
		c.Status, c.Detail = checkFail, fmt.Sprintf("%s is not writable", os.TempDir())
		c.Hint = "set TMPDIR to a writable directory"
		return c
	}
	c.Status, c.Detail = checkOK, os.TempDir()
	return c
}

// checkAssets loads the report templates and style an export would use.
func checkAssets(assetPath string) doctorCheck {
	c := doctorCheck{Name: "assets", Status: checkOK, Detail: "built-in"}
	if assetPath != "" {
		c.Detail = assetPath
	}

	fail := func(err error) doctorCheck {
		c.Status, c.Detail = checkFail, err.Error()
		c.Hint = "fix or remove --asset-path to use built-in assets"
		return c
	}
	r, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return fail(err)
	}
	if _, err := r.LoadTemplateSet(assets.DefaultTemplateSetName); err != nil {
		return fail(err)
	}
	if _, err := r.LoadStyle(assets.DefaultStyleName); err != nil {
		return fail(err)
	}
	return c
}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintf(w, "audit2pdf doctor (%s)\n\n", r.Platform)
	for _, c := range r.Checks {
		fmt.Fprintf(w, "  %-6s %-8s %s\n", "["+strings.ToUpper(string(c.Status))+"]", c.Name, c.Detail)
		if c.Hint != "" {
			fmt.Fprintf(w, "  %-6s %-8s hint: %s\n", "", "", c.Hint)
		}
	}
	fmt.Fprintln(w)

	switch {
	case !r.Ready:
		fmt.Fprintln(w, "Not ready: fix the failed checks above")
	case r.warnings() > 0:
		fmt.Fprintf(w, "Ready to export (%d warning(s))\n", r.warnings())
	default:
		fmt.Fprintln(w, "Ready to export")
	}
}
