package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/logging"
)

// signalBinding is the CDP binding the bootstrap script calls to deliver
// page signals into Go.
const signalBinding = "__formfillSignal"

// bootstrapJS is installed on every new document before page scripts run.
// It watches for subtree insertions (dynamically revealed form steps) and
// focus on form controls, and forwards both through the runtime binding.
const bootstrapJS = `(() => {
	if (window.__formfillObserved) return;
	window.__formfillObserved = true;
	const emit = (kind, payload) => {
		if (typeof window.` + signalBinding + ` === 'function') {
			window.` + signalBinding + `(JSON.stringify({ kind: kind, payload: payload || '' }));
		}
	};
	const observer = new MutationObserver((mutations) => {
		for (const m of mutations) {
			if (m.addedNodes && m.addedNodes.length) { emit('mutation'); return; }
		}
	});
	const start = () => observer.observe(document.documentElement, { childList: true, subtree: true });
	if (document.documentElement) { start(); } else { document.addEventListener('DOMContentLoaded', start); }
	document.addEventListener('focusin', (ev) => {
		const el = ev.target;
		if (!el || !el.matches) return;
		if (!el.matches('input, select, textarea, [contenteditable="true"]')) return;
		emit('focus', el.id || el.name || el.getAttribute('data-automation-id') || '');
	}, true);
})();`

// ChromedpSession drives one browser tab. All methods are serialized by the
// caller; the signal channel is fed from CDP event callbacks.
type ChromedpSession struct {
	cfg    Config
	logger logging.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	signals   chan interfaces.Signal
	closeOnce sync.Once
}

var _ interfaces.DOMSession = (*ChromedpSession)(nil)

func newChromedpSession(cfg Config, logger interfaces.Logger) (*ChromedpSession, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &ChromedpSession{
		cfg:         cfg,
		logger:      logger.With(logging.Field{Key: "component", Value: "session"}),
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		signals:     make(chan interfaces.Signal, 64),
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		if b, ok := ev.(*cdpruntime.EventBindingCalled); ok && b.Name == signalBinding {
			s.deliver(b.Payload)
		}
	})

	// Register the binding and bootstrap script before any navigation so
	// the first document is observed too.
	err := chromedp.Run(ctx,
		cdpruntime.AddBinding(signalBinding),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(bootstrapJS).Do(ctx)
			return err
		}),
	)
	if err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	return s, nil
}

// deliver parses one binding payload and forwards it without blocking the
// CDP event loop. Signals are dropped when the consumer falls behind; the
// fallback rescan ticker covers anything missed.
func (s *ChromedpSession) deliver(payload string) {
	var raw struct {
		Kind    string `json:"kind"`
		Payload string `json:"payload"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		s.logger.Debug("malformed page signal", logging.Field{Key: "error", Value: err.Error()})
		return
	}

	sig := interfaces.Signal{Kind: interfaces.SignalKind(raw.Kind), Payload: raw.Payload}
	select {
	case s.signals <- sig:
	default:
		s.logger.Debug("signal dropped, consumer behind",
			logging.Field{Key: "kind", Value: raw.Kind})
	}
}

// Navigate loads the URL and blocks until the network has been idle for
// cfg.IdleAfter, or the navigate timeout elapses.
func (s *ChromedpSession) Navigate(ctx context.Context, url string) error {
	idle := waitNetworkIdle(s.ctx, s.cfg.IdleAfter)

	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	timeout := s.cfg.NavigateTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().NavigateTimeout
	}
	select {
	case <-idle:
	case <-time.After(timeout):
		s.logger.Warn("network never went idle, proceeding",
			logging.Field{Key: "url", Value: url})
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
	return nil
}

func (s *ChromedpSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("snapshot page: %w", err)
	}
	return html, nil
}

func (s *ChromedpSession) Eval(ctx context.Context, js string, out any) error {
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, out)); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

func (s *ChromedpSession) Signals() <-chan interfaces.Signal { return s.signals }

func (s *ChromedpSession) URL(ctx context.Context) (string, error) {
	var loc string
	if err := chromedp.Run(s.ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return loc, nil
}

func (s *ChromedpSession) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.allocCancel()
		close(s.signals)
	})
	return nil
}

// waitNetworkIdle signals once no request has been in flight for idleAfter.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() {
					close(idleChan)
				})
			}
		})
	}

	chromedp.ListenTarget(ctx,
		func(ev any) {
			switch ev.(type) {
			case *network.EventRequestWillBeSent:
				atomic.AddInt32(&activeReqs, 1)
			case *network.EventLoadingFinished, *network.EventLoadingFailed:
				if atomic.AddInt32(&activeReqs, -1) <= 0 {
					startTimer()
				}
			}
		})

	// A page that makes no requests at all still settles.
	startTimer()

	return idleChan
}
