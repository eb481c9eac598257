package handlers

import (
	"net/http"

	"github.com/vibeset/backend/internal/config"
	"github.com/vibeset/backend/internal/models"
)

// DebugHandler exposes non-sensitive environment checks for the frontend.
type DebugHandler struct {
	cfg *config.Config
}

func NewDebugHandler(cfg *config.Config) *DebugHandler {
	return &DebugHandler{cfg: cfg}
}

// EnvCheck reports whether the AI credential is configured, without ever
// exposing its value.
func (h *DebugHandler) EnvCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.EnvCheckResponse{
		HasOpenAIKey: h.cfg.OpenAIAPIKey != "",
	})
}
