package app

import (
	"github.com/vennverse/formfill/internal/classifier"
	"github.com/vennverse/formfill/internal/filler"
	"github.com/vennverse/formfill/internal/profile"
	"github.com/vennverse/formfill/internal/session"
	"github.com/vennverse/formfill/internal/utils"
)

// Config contains the runtime configuration shared across internal modules.
type Config struct {
	// ServerAddr is the HTTP listen address for the API server (CLI uses
	// the orchestrator in-process and does not require the network).
	ServerAddr string

	// DBPath is the SQLite database holding accounts and fill history.
	DBPath string

	// SessionCfg controls the browser session backend.
	SessionCfg session.Config

	// FillerCfg tunes pass scheduling and the fill threshold.
	FillerCfg filler.Config

	// ClassifierCfg tunes field classification scoring.
	ClassifierCfg classifier.Config

	// LoaderCfg points at the platform backend serving profiles.
	LoaderCfg profile.LoaderConfig

	// JobTimeout bounds a watch-mode fill job. Zero means run until
	// canceled.
	JobTimeout int // seconds

	// URLCfg controls target-URL canonicalization. Fill targets are
	// canonicalized once at job entry so site detection and fill history
	// key on a stable form of the URL.
	URLCfg utils.CanonicalizeOptions
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		ServerAddr:    "localhost:8080",
		DBPath:        "formfill.db",
		SessionCfg:    session.DefaultConfig(),
		FillerCfg:     filler.DefaultConfig(),
		ClassifierCfg: classifier.DefaultConfig(),
		LoaderCfg:     profile.DefaultLoaderConfig(),
		JobTimeout:    120,
		URLCfg: utils.CanonicalizeOptions{
			DropTrackingParams: false,
			StripTrailingSlash: true,
			DefaultScheme:      "https",
		},
	}
}
