package sections

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// Selection is a set of selected section ids.
type Selection map[string]struct{}

// Select builds a Selection from ids.
func Select(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Restore reverts a filter. It is safe to call more than once; only the
// first call has an effect.
type Restore struct {
	once    sync.Once
	changed []Entry
	err     error
}

// Hid returns the ids this filter hid, in registration order.
func (h *Restore) Hid() []string {
	ids := make([]string, len(h.changed))
	for i, e := range h.changed {
		ids[i] = e.ID
	}
	return ids
}

// Restore re-shows exactly the regions the filter hid.
// Every region is attempted; failures are combined.
func (h *Restore) Restore(ctx context.Context) error {
	h.once.Do(func() {
		h.err = show(ctx, h.changed)
	})
	return h.err
}

// Apply hides every registered region whose id is not selected and returns
// the handle that undoes it. Regions already hidden before Apply are left
// alone and are not re-shown on restore. Selected ids that are not
// registered are ignored.
//
// If hiding fails partway, the regions hidden so far are shown again and
// the error is returned with a nil handle.
func Apply(ctx context.Context, reg *Registry, selected Selection) (*Restore, error) {
	var changed []Entry
	for _, e := range reg.Snapshot() {
		if selected.Has(e.ID) {
			continue
		}
		hidden, err := e.Region.Hidden(ctx)
		if err == nil && !hidden {
			err = e.Region.SetHidden(ctx, true)
			if err == nil {
				changed = append(changed, e)
				continue
			}
		}
		if err != nil {
			err = fmt.Errorf("hiding section %q: %w", e.ID, err)
			return nil, multierr.Append(err, show(context.WithoutCancel(ctx), changed))
		}
	}
	return &Restore{changed: changed}, nil
}

func show(ctx context.Context, entries []Entry) error {
	var errs error
	for _, e := range entries {
		if err := e.Region.SetHidden(ctx, false); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("showing section %q: %w", e.ID, err))
		}
	}
	return errs
}
