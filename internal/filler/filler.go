// Package filler orchestrates fill passes over a live page: scan, classify,
// resolve, inject, and record. It owns the per-session filled-field registry
// that makes passes idempotent, and it reacts to page signals so dynamically
// revealed form steps get filled without a full reload.
package filler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
	"github.com/vennverse/formfill/internal/report"
	"github.com/vennverse/formfill/internal/scanner"
)

// ErrProfileRequired means no profile snapshot is available. Filling never
// proceeds without one; this is the session's single halt condition.
var ErrProfileRequired = errors.New("filler: profile required")

// Config tunes pass scheduling and the fill threshold.
type Config struct {
	// ConfidenceThreshold is the minimum classification confidence a field
	// needs before its value is injected.
	ConfidenceThreshold float64

	// MutationDebounce coalesces bursts of DOM-mutation signals into one
	// rescan pass.
	MutationDebounce time.Duration

	// FocusDebounce delays the just-in-time pass after a control gains
	// focus, letting the page finish its own focus handling first.
	FocusDebounce time.Duration

	// RescanInterval is the fallback full-rescan cadence for pages whose
	// changes escape the mutation observer.
	RescanInterval time.Duration

	// Notify renders an in-page toast after passes that filled something.
	Notify bool
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.3,
		MutationDebounce:    500 * time.Millisecond,
		FocusDebounce:       100 * time.Millisecond,
		RescanInterval:      2 * time.Second,
		Notify:              true,
	}
}

// Filler runs fill passes. Safe for use by one session goroutine; the
// filled-field registry is additionally guarded for concurrent readers
// (status endpoints).
type Filler struct {
	cfg        Config
	scanner    *scanner.Scanner
	classifier interfaces.Classifier
	resolver   interfaces.Resolver
	injector   interfaces.Injector
	reports    *report.Builder
	logger     logging.Logger

	mu     sync.Mutex
	filled map[string]bool   // identities written this session
	values map[string]string // identity -> value, for state rendering
	pass   int
}

// New creates a Filler from its collaborators.
func New(cfg Config, sc *scanner.Scanner, cl interfaces.Classifier, res interfaces.Resolver, inj interfaces.Injector, rb *report.Builder, logger logging.Logger) *Filler {
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = DefaultConfig().ConfidenceThreshold
	}
	return &Filler{
		cfg:        cfg,
		scanner:    sc,
		classifier: cl,
		resolver:   res,
		injector:   inj,
		reports:    rb,
		logger:     logger.With(logging.Field{Key: "component", Value: "filler"}),
		filled:     make(map[string]bool),
		values:     make(map[string]string),
	}
}

// FilledCount reports how many distinct controls have been written or
// recognized as prefilled this session.
func (f *Filler) FilledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filled)
}

// Run executes the initial pass and then keeps the page filled until ctx is
// canceled or the session's signal channel closes. Each pass that changed
// anything is delivered through onReport.
func (f *Filler) Run(ctx context.Context, session interfaces.DOMSession, profile *model.UserProfile, site model.SiteContext, onReport func(*model.FillReport)) error {
	if profile == nil {
		return ErrProfileRequired
	}
	emit := func(r *model.FillReport) {
		if r != nil && onReport != nil {
			onReport(r)
		}
	}

	rep, err := f.Pass(ctx, session, profile, site)
	if err != nil {
		return fmt.Errorf("initial pass: %w", err)
	}
	emit(rep)
	f.notify(ctx, session, rep)

	mutation := time.NewTimer(time.Hour)
	mutation.Stop()
	focus := time.NewTimer(time.Hour)
	focus.Stop()
	defer mutation.Stop()
	defer focus.Stop()

	ticker := time.NewTicker(f.cfg.RescanInterval)
	defer ticker.Stop()

	var focusTarget string
	signals := session.Signals()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			switch sig.Kind {
			case interfaces.SignalMutation:
				mutation.Reset(f.cfg.MutationDebounce)
			case interfaces.SignalFocus:
				focusTarget = sig.Payload
				focus.Reset(f.cfg.FocusDebounce)
			}

		case <-mutation.C:
			if rep, err := f.Pass(ctx, session, profile, site); err != nil {
				f.logger.Warn("mutation pass failed", logging.Field{Key: "error", Value: err.Error()})
			} else if changed(rep) {
				emit(rep)
				f.notify(ctx, session, rep)
			}

		case <-focus.C:
			if rep, err := f.passFiltered(ctx, session, profile, site, focusTarget); err != nil {
				f.logger.Warn("focus pass failed", logging.Field{Key: "error", Value: err.Error()})
			} else if changed(rep) {
				emit(rep)
			}

		case <-ticker.C:
			if rep, err := f.Pass(ctx, session, profile, site); err != nil {
				f.logger.Warn("rescan pass failed", logging.Field{Key: "error", Value: err.Error()})
			} else if changed(rep) {
				emit(rep)
			}
		}
	}
}

// Pass runs one full scan-and-fill pass over the current page.
func (f *Filler) Pass(ctx context.Context, session interfaces.DOMSession, profile *model.UserProfile, site model.SiteContext) (*model.FillReport, error) {
	return f.passFiltered(ctx, session, profile, site, "")
}

// passFiltered processes every discovered control, or just the one with the
// given identity when only is non-empty (the just-in-time focus path).
func (f *Filler) passFiltered(ctx context.Context, session interfaces.DOMSession, profile *model.UserProfile, site model.SiteContext, only string) (*model.FillReport, error) {
	if profile == nil {
		return nil, ErrProfileRequired
	}

	html, err := session.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	els, err := f.scanner.Scan(html)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if only != "" {
		filtered := els[:0]
		for _, el := range els {
			if el.Identity == only {
				filtered = append(filtered, el)
			}
		}
		els = filtered
	}

	before := report.RenderState(els, f.valuesSnapshot())

	outcomes := make([]model.FieldOutcome, 0, len(els))
	for _, el := range els {
		outcomes = append(outcomes, f.processElement(ctx, session, el, profile, site))
	}

	after := report.RenderState(els, f.valuesSnapshot())

	url, err := session.URL(ctx)
	if err != nil {
		url = ""
	}

	f.mu.Lock()
	f.pass++
	pass := f.pass
	f.mu.Unlock()

	return f.reports.Build(url, pass, site, outcomes, len(els), before, after), nil
}

// processElement applies the per-field pipeline. Every failure mode maps to
// an outcome status; nothing here can abort the pass.
func (f *Filler) processElement(ctx context.Context, session interfaces.DOMSession, el *model.Element, profile *model.UserProfile, site model.SiteContext) model.FieldOutcome {
	out := model.FieldOutcome{Identity: el.Identity}

	f.mu.Lock()
	done := f.filled[el.Identity]
	f.mu.Unlock()
	if done {
		out.Status = model.OutcomeAlreadyFilled
		return out
	}

	res := f.classifier.Classify(el, site)
	out.Field = res.MappedField
	out.Confidence = res.Confidence
	if res.MappedField == "" || res.Confidence < f.cfg.ConfidenceThreshold {
		out.Status = model.OutcomeLowConfidence
		return out
	}

	value := f.resolver.Resolve(res.MappedField, profile)
	if value == "" {
		out.Status = model.OutcomeNoValue
		return out
	}

	// Controls the user (or the page) already populated are never
	// overwritten; they join the registry so later passes skip them.
	if cur := f.injector.CurrentValue(ctx, session, el); cur != "" {
		f.mark(el.Identity, cur)
		out.Status = model.OutcomeAlreadyFilled
		return out
	}

	if !f.injector.Inject(ctx, session, el, value) {
		out.Status = model.OutcomeInjectFailed
		return out
	}

	f.mark(el.Identity, value)
	out.Status = model.OutcomeFilled
	f.logger.Debug("field filled",
		logging.Field{Key: "identity", Value: el.Identity},
		logging.Field{Key: "field", Value: res.MappedField},
		logging.Field{Key: "confidence", Value: res.Confidence})
	return out
}

func (f *Filler) mark(identity, value string) {
	f.mu.Lock()
	f.filled[identity] = true
	f.values[identity] = value
	f.mu.Unlock()
}

func (f *Filler) valuesSnapshot() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make(map[string]string, len(f.values))
	for k, v := range f.values {
		cp[k] = v
	}
	return cp
}

func (f *Filler) notify(ctx context.Context, session interfaces.DOMSession, rep *model.FillReport) {
	if !f.cfg.Notify || rep == nil || rep.Filled == 0 {
		return
	}
	type notifier interface {
		Notify(ctx context.Context, session interfaces.DOMSession, message string)
	}
	if n, ok := f.injector.(notifier); ok {
		n.Notify(ctx, session, fmt.Sprintf("Filled %d of %d fields", rep.Filled, rep.Scanned))
	}
}

func changed(rep *model.FillReport) bool {
	return rep != nil && (rep.Filled > 0 || len(rep.Diff) > 0)
}
