package server

import (
	_ "embed"
	"net/http"
)

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title Formfill API
// @version 0.1
// @description Interactive documentation for the formfill orchestrator API surface.
// @contact.name Formfill Maintainers
// @contact.url https://github.com/vennverse/formfill
// @BasePath /

// swaggerSpec is the checked-in API spec served to the swagger UI. Regenerate
// with go generate after changing handler annotations.
//
//go:embed swagger.json
var swaggerSpec []byte

func (s *Server) handleSwaggerSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(swaggerSpec)
}
