package interfaces

import (
	"context"

	"github.com/vennverse/formfill/internal/model"
)

// Injector writes a value into a live form control such that the host
// page's own framework observes the change. Inject reports success as a
// bool; it never propagates per-field errors (a failed injection leaves
// the field untouched and the caller may retry on a later pass).
type Injector interface {
	Inject(ctx context.Context, session DOMSession, el *model.Element, value string) bool

	// CurrentValue probes the live control's present value so callers can
	// honor the never-overwrite rule. "" means empty or unreadable.
	CurrentValue(ctx context.Context, session DOMSession, el *model.Element) string
}
