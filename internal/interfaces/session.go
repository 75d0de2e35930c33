package interfaces

import "context"

// SignalKind identifies an asynchronous page signal delivered through the
// bootstrap script's runtime binding.
type SignalKind string

const (
	// SignalMutation fires when the page's MutationObserver sees subtree
	// insertions. Payload is empty.
	SignalMutation SignalKind = "mutation"

	// SignalFocus fires when a form control gains focus. Payload is the
	// element's stable identity when one could be computed page-side.
	SignalFocus SignalKind = "focus"
)

// Signal is one asynchronous notification from the observed page.
type Signal struct {
	Kind    SignalKind
	Payload string
}

// DOMSession is the contract for a live page a fill engine can drive.
// Implementations wrap a real browser tab (chromedp) or an in-memory fake
// for tests. Implementations should be safe for use from a single goroutine;
// the filler serializes all calls.
type DOMSession interface {
	// Navigate loads the target URL and waits for the page to settle
	// (network idle for browser-backed implementations).
	Navigate(ctx context.Context, url string) error

	// HTML returns the current full document markup.
	HTML(ctx context.Context) (string, error)

	// Eval runs a JavaScript expression in the page and unmarshals the
	// result into out when out is non-nil.
	Eval(ctx context.Context, js string, out any) error

	// Signals returns the channel on which page signals (mutations, focus
	// events) are delivered. The channel is closed when the session closes.
	Signals() <-chan Signal

	// URL returns the current page location.
	URL(ctx context.Context) (string, error)

	// Close releases the underlying tab/browser resources.
	Close() error
}
