package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "default", wantErr: false},
		{name: "hyphenated", input: "agency-dark", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "forward slash", input: "a/b", wantErr: true},
		{name: "backslash", input: "a\\b", wantErr: true},
		{name: "traversal", input: "..", wantErr: true},
		{name: "dot extension", input: "default.css", wantErr: true},
		{name: "null byte", input: "a\x00b", wantErr: true},
		{name: "too long", input: strings.Repeat("a", maxAssetNameLen+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("error = %v, want ErrInvalidAssetName", err)
			}
		})
	}
}

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	t.Run("default style has both palettes", func(t *testing.T) {
		t.Parallel()

		css, err := loader.LoadStyle(DefaultStyleName)
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		for _, want := range []string{`html[data-theme="dark"]`, "#report-content", "prefers-color-scheme"} {
			if !strings.Contains(css, want) {
				t.Errorf("default style missing %q", want)
			}
		}
	})

	t.Run("default template set", func(t *testing.T) {
		t.Parallel()

		ts, err := loader.LoadTemplateSet(DefaultTemplateSetName)
		if err != nil {
			t.Fatalf("LoadTemplateSet() error = %v", err)
		}
		if ts.Name != DefaultTemplateSetName {
			t.Errorf("Name = %q", ts.Name)
		}
		if !strings.Contains(ts.Report, "data-section-id") || !strings.Contains(ts.Report, `id="report-content"`) {
			t.Error("report template lacks section markers")
		}
		if !strings.Contains(ts.Pages, "@page") {
			t.Error("pages template lacks @page rule")
		}
	})

	t.Run("missing assets", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadStyle("nonexistent"); !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
		if _, err := loader.LoadTemplateSet("nonexistent"); !errors.Is(err, ErrTemplateSetNotFound) {
			t.Errorf("LoadTemplateSet() error = %v, want ErrTemplateSetNotFound", err)
		}
		if _, err := loader.LoadStyle("../default"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("invalid base paths", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := filepath.Join(dir, "file.txt")
		writeFile(t, file, "x")

		for _, p := range []string{"", filepath.Join(dir, "missing"), file} {
			if _, err := NewFilesystemLoader(p); !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader(%q) error = %v, want ErrInvalidBasePath", p, err)
			}
		}
	})

	t.Run("loads style and template set", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "styles", "brand.css"), "body{color:red}")
		writeFile(t, filepath.Join(dir, "templates", "brand", "report.html"), "<main></main>")
		writeFile(t, filepath.Join(dir, "templates", "brand", "pages.html"), "<div></div>")

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		css, err := loader.LoadStyle("brand")
		if err != nil || css != "body{color:red}" {
			t.Errorf("LoadStyle() = %q, %v", css, err)
		}
		ts, err := loader.LoadTemplateSet("brand")
		if err != nil {
			t.Fatalf("LoadTemplateSet() error = %v", err)
		}
		if ts.Report != "<main></main>" || ts.Pages != "<div></div>" {
			t.Errorf("LoadTemplateSet() = %+v", ts)
		}
	})

	t.Run("incomplete template set", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "templates", "half", "report.html"), "<main></main>")

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if _, err := loader.LoadTemplateSet("half"); !errors.Is(err, ErrIncompleteTemplateSet) {
			t.Errorf("LoadTemplateSet() error = %v, want ErrIncompleteTemplateSet", err)
		}
	})

	t.Run("symlink escaping base path", func(t *testing.T) {
		t.Parallel()

		outside := t.TempDir()
		writeFile(t, filepath.Join(outside, "secret.css"), "secret")

		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(dir, "styles", "evil.css")); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if _, err := loader.LoadStyle("evil"); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("LoadStyle() error = %v, want ErrPathTraversal", err)
		}
	})
}

func TestAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("HasCustomLoader() = true for empty path")
		}
		if _, err := r.LoadTemplateSet(DefaultTemplateSetName); err != nil {
			t.Errorf("LoadTemplateSet() error = %v", err)
		}
	})

	t.Run("custom overrides and falls back", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "styles", "default.css"), "custom")

		r, err := NewAssetResolver(dir)
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		css, err := r.LoadStyle(DefaultStyleName)
		if err != nil || css != "custom" {
			t.Errorf("LoadStyle() = %q, %v; want custom", css, err)
		}
		ts, err := r.LoadTemplateSet(DefaultTemplateSetName)
		if err != nil {
			t.Fatalf("LoadTemplateSet() error = %v", err)
		}
		if !strings.Contains(ts.Report, "data-section-id") {
			t.Error("fallback did not return the embedded template set")
		}
	})

	t.Run("incomplete custom set does not fall back", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "templates", "default", "pages.html"), "<div></div>")

		r, err := NewAssetResolver(dir)
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if _, err := r.LoadTemplateSet(DefaultTemplateSetName); !errors.Is(err, ErrIncompleteTemplateSet) {
			t.Errorf("LoadTemplateSet() error = %v, want ErrIncompleteTemplateSet", err)
		}
	})

	t.Run("invalid custom path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewAssetResolver("/nonexistent/path/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestPackageDefaults(t *testing.T) {
	t.Parallel()

	if _, err := LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() error = %v", err)
	}
	if _, err := LoadTemplateSet(DefaultTemplateSetName); err != nil {
		t.Errorf("LoadTemplateSet() error = %v", err)
	}
}
