package cli

import (
	"flag"
	"fmt"
	"strings"
)

// Args are the command-line arguments that control a single fill run or the
// API server.
type Args struct {
	// Target is the application-form URL to fill (required in fill modes).
	Target string

	// Account is the slug or id of the account whose profile is used.
	Account string

	// Mode selects what to run: "serve" starts the HTTP API, "fill" runs a
	// single pass and exits, "watch" keeps filling until interrupted.
	Mode string

	// Headful shows the browser window instead of running headless.
	Headful bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns Args. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*Args, error) {
	fs := flag.NewFlagSet("formfill-cli", flag.ContinueOnError)
	var (
		target  = fs.String("target", "", "Application form URL to fill")
		account = fs.String("account", "", "Account slug or id whose profile is used")
		mode    = fs.String("mode", "serve", "Run mode: serve|fill|watch")
		headful = fs.Bool("headful", false, "Show the browser window")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(nil)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	m := strings.TrimSpace(strings.ToLower(*mode))
	switch m {
	case "serve", "fill", "watch":
	default:
		return nil, fmt.Errorf("unknown -mode %q (want serve, fill or watch)", *mode)
	}

	if m != "serve" {
		if strings.TrimSpace(*target) == "" {
			return nil, fmt.Errorf("missing required -target argument for mode %q", m)
		}
		if strings.TrimSpace(*account) == "" {
			return nil, fmt.Errorf("missing required -account argument for mode %q", m)
		}
	}

	return &Args{
		Target:  strings.TrimSpace(*target),
		Account: strings.TrimSpace(*account),
		Mode:    m,
		Headful: *headful,
		RawArgs: args,
	}, nil
}
