// Package session provides live-page access for the fill engine: a
// chromedp-backed DOMSession that navigates, snapshots markup, evaluates
// injection scripts, and streams page signals (DOM mutations, focus events)
// back to the orchestration layer.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vennverse/formfill/internal/interfaces"
)

// BackendConstructor constructs an interfaces.DOMSession given the config and logger.
type BackendConstructor func(cfg Config, logger interfaces.Logger) (interfaces.DOMSession, error)

var (
	mu       sync.RWMutex
	registry = map[string]BackendConstructor{}
)

// RegisterBackend registers a named backend constructor. Name is lower-cased
// internally. Calling RegisterBackend with the same name overwrites the
// previous constructor.
func RegisterBackend(name string, ctor BackendConstructor) {
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// New constructs the configured DOMSession backend. It returns an error if
// the named backend has not been registered.
func New(cfg Config, logger interfaces.Logger) (interfaces.DOMSession, error) {
	backend := strings.ToLower(strings.TrimSpace(string(cfg.Backend)))
	if backend == "" {
		backend = string(BackendChromedp)
	}

	mu.RLock()
	ctor, ok := registry[backend]
	mu.RUnlock()
	if !ok || ctor == nil {
		return nil, fmt.Errorf("session backend %q not registered: available backends=%v", backend, ListBackends())
	}

	s, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to construct session backend %q: %w", backend, err)
	}
	if s == nil {
		return nil, errors.New("session constructor returned nil")
	}
	return s, nil
}

// ListBackends returns the list of registered backend names.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}
