package app

import (
	"fmt"

	"github.com/vennverse/formfill/internal/classifier"
	"github.com/vennverse/formfill/internal/filler"
	"github.com/vennverse/formfill/internal/injector"
	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
	"github.com/vennverse/formfill/internal/profile"
	"github.com/vennverse/formfill/internal/report"
	"github.com/vennverse/formfill/internal/scanner"
	"github.com/vennverse/formfill/internal/session"
	"github.com/vennverse/formfill/internal/sitecontext"
	"github.com/vennverse/formfill/internal/utils"
)

// SessionFactory constructs the browser session for a fill run. Tests swap
// it for an in-memory fake.
type SessionFactory func(cfg session.Config, logger interfaces.Logger) (interfaces.DOMSession, error)

// FillComponents bundles everything one fill run needs: the live session,
// the filler pipeline, and the detected site context.
type FillComponents struct {
	Session interfaces.DOMSession
	Filler  *filler.Filler
	Site    model.SiteContext
}

// NewFillComponents builds the pipeline for a target URL. The session is
// constructed but not navigated; callers own Navigate and Close.
func NewFillComponents(cfg *Config, targetURL string, newSession SessionFactory, logger logging.Logger) (*FillComponents, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if newSession == nil {
		newSession = session.New
	}

	sess, err := newSession(cfg.SessionCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	host := utils.Hostname(targetURL)
	if host == "" {
		_ = sess.Close()
		return nil, fmt.Errorf("target url %q has no host", targetURL)
	}
	site := sitecontext.Detect(host, targetURL)

	f := filler.New(
		cfg.FillerCfg,
		scanner.New(logger),
		classifier.New(&cfg.ClassifierCfg, logger),
		profile.NewResolver(logger),
		injector.New(logger),
		report.NewBuilder(logger),
		logger,
	)

	return &FillComponents{
		Session: sess,
		Filler:  f,
		Site:    site,
	}, nil
}

// Close releases the browser session.
func (fc *FillComponents) Close() error {
	if fc == nil || fc.Session == nil {
		return nil
	}
	return fc.Session.Close()
}
