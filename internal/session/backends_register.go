package session

import "github.com/vennverse/formfill/internal/interfaces"

func init() {
	RegisterBackend(string(BackendChromedp), func(cfg Config, logger interfaces.Logger) (interfaces.DOMSession, error) {
		return newChromedpSession(cfg, logger)
	})
}
