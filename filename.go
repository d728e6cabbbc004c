package audit2pdf

import (
	"strings"
	"unicode"

	"github.com/alnah/go-audit2pdf/internal/fileutil"
	"github.com/alnah/go-audit2pdf/internal/report"
)

// ArtifactPrefix starts every artifact name.
const ArtifactPrefix = "Website-Audit-"

// unsafeNameChars are replaced in domains used as file names.
const unsafeNameChars = `/\:*?"<>|`

// SanitizeDomain turns an audited URL into a file-name-safe domain: the
// scheme and trailing slashes are stripped and characters that are not
// allowed in file names are replaced with "-".
func SanitizeDomain(url string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(unsafeNameChars, r) {
			return '-'
		}
		return r
	}, report.DisplayDomain(url))
}

// ArtifactName returns Website-Audit-{domain}.{ext} for an audited URL.
func ArtifactName(url, ext string) (string, error) {
	if err := fileutil.ValidateExtension(ext); err != nil {
		return "", err
	}
	domain := SanitizeDomain(url)
	if domain == "" {
		return "", ErrEmptyDomain
	}
	return ArtifactPrefix + domain + "." + ext, nil
}
