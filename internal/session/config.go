package session

import "time"

// Backend names a DOMSession implementation.
type Backend string

const (
	BackendChromedp Backend = "chromedp"
)

// Config controls browser session construction and page-settle behavior.
type Config struct {
	// Backend selects the registered session implementation.
	Backend Backend

	// Headless runs the browser without a visible window.
	Headless bool

	// ChromePath overrides the browser binary location. Empty means
	// whatever chromedp finds on PATH.
	ChromePath string

	// UserAgent overrides the browser's user agent when non-empty.
	UserAgent string

	// NavigateTimeout bounds a single Navigate call end to end.
	NavigateTimeout time.Duration

	// IdleAfter is how long the network must stay quiet before a page
	// counts as settled.
	IdleAfter time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Backend:         BackendChromedp,
		Headless:        true,
		NavigateTimeout: 45 * time.Second,
		IdleAfter:       2 * time.Second,
	}
}
