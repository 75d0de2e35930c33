package server

import (
	"github.com/vennverse/formfill/internal/app"
	"github.com/vennverse/formfill/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// AppConfig configures the orchestrator built by the server. Nil means
	// app.DefaultConfig().
	AppConfig *app.Config

	// Logger is optional; a stdout JSON logger is used when nil.
	Logger logging.Logger
}
