package audit2pdf

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
)

// DefaultLogoLimit is the logo size ceiling in bytes.
const DefaultLogoLimit int64 = 2 << 20

// LogoError is a rejected logo together with the ceiling it was checked
// against. It unwraps to ErrAssetTooLarge or ErrUnsupportedLogo.
type LogoError struct {
	Err    error
	Limit  int64
	Detail string
}

func (e *LogoError) Error() string { return e.Err.Error() + ": " + e.Detail }

func (e *LogoError) Unwrap() error { return e.Err }

func logoError(sentinel error, limit int64, format string, args ...any) error {
	return &LogoError{Err: sentinel, Limit: limit, Detail: fmt.Sprintf(format, args...)}
}

// Logo is a decoded branding image.
type Logo struct {
	Image     image.Image
	MediaType string // image/png or image/jpeg
	Size      int64  // encoded size in bytes
}

// NewLogo validates and decodes an encoded logo. The size ceiling is checked
// before anything else; only PNG and JPEG content is accepted, whatever the
// file was called.
func NewLogo(data []byte, limit int64) (*Logo, error) {
	if limit <= 0 {
		limit = DefaultLogoLimit
	}
	if int64(len(data)) > limit {
		return nil, logoError(ErrAssetTooLarge, limit, "%d bytes (max %d)", len(data), limit)
	}

	kind, err := filetype.Match(data)
	if err != nil || (!filetype.Is(data, "png") && !filetype.Is(data, "jpg")) {
		return nil, logoError(ErrUnsupportedLogo, limit, "detected %q", kind.MIME.Value)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, logoError(ErrUnsupportedLogo, limit, "%v", err)
	}
	return &Logo{Image: img, MediaType: kind.MIME.Value, Size: int64(len(data))}, nil
}

// LoadLogo reads a logo file. Oversized files are rejected from their size
// alone, without being read.
func LoadLogo(path string, limit int64) (*Logo, error) {
	if limit <= 0 {
		limit = DefaultLogoLimit
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading logo: %w", err)
	}
	if info.IsDir() {
		return nil, logoError(ErrUnsupportedLogo, limit, "%s is a directory", path)
	}
	if info.Size() > limit {
		return nil, logoError(ErrAssetTooLarge, limit, "%s is %d bytes (max %d)", path, info.Size(), limit)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- logo path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading logo: %w", err)
	}
	return NewLogo(data, limit)
}

// validate re-checks a logo against the exporter's ceiling at export entry.
func (l *Logo) validate(limit int64) error {
	if l == nil {
		return nil
	}
	if l.Size > limit {
		return logoError(ErrAssetTooLarge, limit, "%d bytes (max %d)", l.Size, limit)
	}
	if l.Image == nil {
		return logoError(ErrUnsupportedLogo, limit, "logo has no image")
	}
	return nil
}
