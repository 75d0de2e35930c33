package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
)

// ErrProfileUnavailable is returned when the backend cannot supply a
// profile. This is the single global halt condition for a fill session:
// the engine performs no filling without a profile and never retries
// beyond the one initial fetch.
var ErrProfileUnavailable = errors.New("profile: unavailable")

// LoaderConfig configures the backend profile fetch.
type LoaderConfig struct {
	// BaseURL of the platform backend, e.g. "https://api.example.com".
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds the single fetch attempt.
	Timeout time.Duration
}

// DefaultLoaderConfig returns development defaults.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		BaseURL: "http://localhost:3000",
		Timeout: 10 * time.Second,
	}
}

// Loader fetches UserProfile snapshots over the getUserProfile contract.
// One fetch per fill session; the snapshot is held in memory afterwards.
type Loader struct {
	cfg    LoaderConfig
	client *http.Client
	logger logging.Logger
}

// NewLoader creates a Loader. client may be nil to use a default client
// bounded by cfg.Timeout.
func NewLoader(cfg LoaderConfig, client *http.Client, logger logging.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Loader{
		cfg:    cfg,
		client: client,
		logger: logger.With(logging.Field{Key: "component", Value: "profile-loader"}),
	}
}

// Load fetches the profile snapshot for an account. Any failure maps to
// ErrProfileUnavailable (wrapped with the cause); the caller treats that as
// "do not fill", not as a fatal error.
func (l *Loader) Load(ctx context.Context, accountID string) (*model.UserProfile, error) {
	endpoint := fmt.Sprintf("%s/internal/getUserProfile?account=%s",
		l.cfg.BaseURL, url.QueryEscape(accountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrProfileUnavailable, err)
	}
	if l.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.cfg.APIKey)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Warn("profile fetch failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Warn("profile fetch non-200",
			logging.Field{Key: "status", Value: resp.StatusCode},
			logging.Field{Key: "account", Value: accountID})
		return nil, fmt.Errorf("%w: status %d", ErrProfileUnavailable, resp.StatusCode)
	}

	var p model.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProfileUnavailable, err)
	}

	l.logger.Info("profile loaded", logging.Field{Key: "account", Value: accountID})
	return &p, nil
}
