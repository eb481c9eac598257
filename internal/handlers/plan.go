package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vibeset/backend/internal/config"
	"github.com/vibeset/backend/internal/models"
	"github.com/vibeset/backend/internal/services"
)

// PlanHandler serves AI playlist plan requests.
type PlanHandler struct {
	cfg    *config.Config
	openai *services.OpenAIService
}

// NewPlanHandler creates a PlanHandler with the given configuration and
// OpenAI service.
func NewPlanHandler(cfg *config.Config, openai *services.OpenAIService) *PlanHandler {
	return &PlanHandler{cfg: cfg, openai: openai}
}

// Plan forwards the prompt to the chat completions API and relays the
// validated plan. Format and schema failures from the upstream surface
// their diagnostic payload (raw text or partial plan) in the body.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	// A malformed body is treated as an empty prompt.
	var req models.PlanRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "Missing prompt")
		return
	}

	if h.cfg.OpenAIAPIKey == "" {
		writeError(w, http.StatusInternalServerError, "OpenAI API key not configured. Please set OPENAI_API_KEY environment variable.")
		return
	}

	plan, err := h.openai.PlanPlaylist(r.Context(), prompt)
	if err != nil {
		var formatErr *services.FormatError
		if errors.As(err, &formatErr) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": formatErr.Error(),
				"raw":   formatErr.Raw,
			})
			return
		}

		var incompleteErr *services.IncompleteError
		if errors.As(err, &incompleteErr) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": incompleteErr.Error(),
				"plan":  incompleteErr.Plan,
			})
			return
		}

		writeErrorWithCause(r.Context(), w, http.StatusInternalServerError, "AI plan request failed", err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}
