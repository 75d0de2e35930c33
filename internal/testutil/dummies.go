// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── DOMSession ────────────────────────────────────────────────────────

// FakeSession implements interfaces.DOMSession against in-memory markup.
// HTML returns Page; Eval records every script and answers through EvalFunc
// when set, otherwise it writes true into *bool outs (every injection
// "succeeds"). Emit delivers page signals to the filler under test.
type FakeSession struct {
	mu          sync.Mutex
	Page        string
	Current     string
	EvalScripts []string

	// EvalFunc, when non-nil, handles every Eval call.
	EvalFunc func(js string, out any) error

	// NavigateErr forces Navigate to fail.
	NavigateErr error

	signals chan interfaces.Signal
	closed  bool
}

// NewFakeSession creates a FakeSession serving the given markup.
func NewFakeSession(page string) *FakeSession {
	return &FakeSession{
		Page:    page,
		signals: make(chan interfaces.Signal, 16),
	}
}

func (s *FakeSession) Navigate(_ context.Context, url string) error {
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.mu.Lock()
	s.Current = url
	s.mu.Unlock()
	return nil
}

func (s *FakeSession) HTML(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Page, nil
}

func (s *FakeSession) Eval(_ context.Context, js string, out any) error {
	s.mu.Lock()
	s.EvalScripts = append(s.EvalScripts, js)
	fn := s.EvalFunc
	s.mu.Unlock()

	if fn != nil {
		return fn(js, out)
	}
	if b, ok := out.(*bool); ok {
		*b = true
	}
	return nil
}

func (s *FakeSession) Signals() <-chan interfaces.Signal { return s.signals }

func (s *FakeSession) URL(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Current, nil
}

func (s *FakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.signals)
	}
	return nil
}

// SetPage swaps the markup the session serves, simulating a DOM change.
func (s *FakeSession) SetPage(page string) {
	s.mu.Lock()
	s.Page = page
	s.mu.Unlock()
}

// Emit delivers a page signal to whoever is draining Signals().
func (s *FakeSession) Emit(kind interfaces.SignalKind, payload string) {
	s.signals <- interfaces.Signal{Kind: kind, Payload: payload}
}

// Scripts returns a copy of every script passed to Eval so far.
func (s *FakeSession) Scripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.EvalScripts...)
}

// ─── Profile fixtures ──────────────────────────────────────────────────

// SampleProfileJSON is a full backend snapshot as the wire format delivers it.
const SampleProfileJSON = `{
	"user": {"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"},
	"profile": {
		"phone": "+1 555 0100",
		"currentAddress": "12 Analytical Way",
		"city": "Boston",
		"state": "MA",
		"zipCode": "02134",
		"linkedinUrl": "https://linkedin.com/in/ada",
		"workAuthorization": "US Citizen",
		"requiresSponsorship": false,
		"expectedSalary": "150000"
	},
	"workExperience": [
		{"company": "Babbage & Co", "title": "Engineer", "startDate": "2020-01", "endDate": "2022-06"},
		{"company": "Difference Inc", "title": "Senior Engineer", "startDate": "2022-07"}
	],
	"education": [
		{"institution": "UCL", "degree": "Bachelor of Science"},
		{"institution": "Cambridge", "degree": "Master of Arts"}
	]
}`

// SampleProfile decodes SampleProfileJSON. Panics on decode failure, which
// would mean the fixture itself is broken.
func SampleProfile() *model.UserProfile {
	var p model.UserProfile
	if err := json.Unmarshal([]byte(SampleProfileJSON), &p); err != nil {
		panic("testutil: bad profile fixture: " + err.Error())
	}
	return &p
}
