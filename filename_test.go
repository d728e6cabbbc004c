package audit2pdf

import (
	"errors"
	"testing"

	"github.com/alnah/go-audit2pdf/internal/fileutil"
)

func TestArtifactName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		ext     string
		want    string
		wantErr error
	}{
		{name: "bare domain", url: "example.com", ext: "pdf", want: "Website-Audit-example.com.pdf"},
		{name: "https stripped", url: "https://example.com", ext: "pdf", want: "Website-Audit-example.com.pdf"},
		{name: "http stripped", url: "http://example.com", ext: "pdf", want: "Website-Audit-example.com.pdf"},
		{name: "scheme case-insensitive", url: "HTTPS://Example.com", ext: "pdf", want: "Website-Audit-Example.com.pdf"},
		{name: "trailing slash stripped", url: "https://example.com/", ext: "zip", want: "Website-Audit-example.com.zip"},
		{name: "several trailing slashes", url: "example.com///", ext: "pdf", want: "Website-Audit-example.com.pdf"},
		{name: "surrounding space", url: "  example.com  ", ext: "pdf", want: "Website-Audit-example.com.pdf"},
		{name: "path separators replaced", url: "https://example.com/fr/shop/", ext: "pdf", want: "Website-Audit-example.com-fr-shop.pdf"},
		{name: "port and query", url: "example.com:8080/?q=1", ext: "pdf", want: "Website-Audit-example.com-8080--q=1.pdf"},
		{name: "backslash and control", url: "a\\b\tc", ext: "pdf", want: "Website-Audit-a-b-c.pdf"},
		{name: "other scheme kept", url: "ftp://example.com", ext: "pdf", want: "Website-Audit-ftp---example.com.pdf"},
		{name: "empty", url: "", ext: "pdf", wantErr: ErrEmptyDomain},
		{name: "scheme only", url: "https://", ext: "pdf", wantErr: ErrEmptyDomain},
		{name: "slashes only", url: "///", ext: "pdf", wantErr: ErrEmptyDomain},
		{name: "empty extension", url: "example.com", ext: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "extension with separator", url: "example.com", ext: "../pdf", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ArtifactName(tt.url, tt.ext)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ArtifactName(%q, %q) error = %v, want %v", tt.url, tt.ext, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ArtifactName(%q, %q) error = %v", tt.url, tt.ext, err)
			}
			if got != tt.want {
				t.Errorf("ArtifactName(%q, %q) = %q, want %q", tt.url, tt.ext, got, tt.want)
			}
		})
	}
}
