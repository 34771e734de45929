package api

import (
	"net/http"

	"github.com/phrazzld/taskhub/internal/api/shared"
)

// SystemHandler serves liveness and build information.
type SystemHandler struct {
	name    string
	version string
}

// NewSystemHandler creates a SystemHandler reporting name and version.
func NewSystemHandler(name, version string) *SystemHandler {
	return &SystemHandler{name: name, version: version}
}

// Health handles GET /health requests
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// Info handles GET /info requests
func (h *SystemHandler) Info(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, InfoResponse{Name: h.name, Version: h.version})
}
