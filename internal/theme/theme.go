// Package theme pins a rendered report to one canonical color theme while it
// is captured and puts the viewer's theme back afterwards.
package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Theme is a named color palette.
type Theme string

// Known themes. Unset means no explicit theme: the view falls back to its
// own default styling.
const (
	Unset Theme = ""
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ErrUnknownTheme is returned by Parse for names other than light or dark.
var ErrUnknownTheme = errors.New("unknown theme")

// Parse converts a user-supplied name into a Theme.
// The empty string and "none" map to Unset.
func Parse(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	case "", "none", "unset":
		return Unset, nil
	default:
		return Unset, fmt.Errorf("%w: %q (available: light, dark)", ErrUnknownTheme, name)
	}
}

// String returns the theme name, or "unset".
func (t Theme) String() string {
	if t == Unset {
		return "unset"
	}
	return string(t)
}

// Target is the themable surface of a rendered report.
type Target interface {
	// ActiveTheme returns the explicit theme currently applied.
	ActiveTheme(ctx context.Context) (Theme, error)
	// SetTheme applies t; Unset removes any explicit theme.
	SetTheme(ctx context.Context, t Theme) error
}

// Normalizer forces a Target into its Canonical theme.
type Normalizer struct {
	Canonical Theme
}

// NewNormalizer creates a normalizer for the given canonical theme.
func NewNormalizer(canonical Theme) *Normalizer {
	return &Normalizer{Canonical: canonical}
}

// Restore reverts a normalization. Only the first call has an effect.
type Restore struct {
	once     sync.Once
	target   Target
	original Theme
	known    bool
	err      error
}

// Original returns the theme that will be restored and whether it was read
// successfully. When it could not be read, restore falls back to Unset.
func (h *Restore) Original() (Theme, bool) {
	return h.original, h.known
}

// Restore puts back the theme that was active before Apply.
func (h *Restore) Restore(ctx context.Context) error {
	h.once.Do(func() {
		if err := h.target.SetTheme(ctx, h.original); err != nil {
			h.err = fmt.Errorf("restoring theme %s: %w", h.original, err)
		}
	})
	return h.err
}

// Apply records the target's current theme and switches it to the canonical
// theme. If the current theme cannot be read, the handle restores Unset
// rather than guessing.
func (n *Normalizer) Apply(ctx context.Context, target Target) (*Restore, error) {
	h := &Restore{target: target}
	if current, err := target.ActiveTheme(ctx); err == nil {
		h.original, h.known = current, true
	}

	if err := target.SetTheme(ctx, n.Canonical); err != nil {
		// The set may have partially applied.
		_ = h.Restore(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("applying theme %s: %w", n.Canonical, err)
	}
	return h, nil
}
