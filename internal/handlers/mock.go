package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vibeset/backend/internal/models"
	"github.com/vibeset/backend/internal/playlist"
)

// MockHandler serves the mock generation and mock creation endpoints.
type MockHandler struct {
	generator *playlist.Generator
	creator   *playlist.Creator
}

// NewMockHandler creates a MockHandler with the given generator and creator.
func NewMockHandler(generator *playlist.Generator, creator *playlist.Creator) *MockHandler {
	return &MockHandler{generator: generator, creator: creator}
}

// Generate fills a playlist with tracks from the genre pool matching the
// prompt.
func (h *MockHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	resp, err := h.generator.Generate(req.Prompt)
	if err != nil {
		if errors.Is(err, playlist.ErrEmptyPrompt) {
			writeError(w, http.StatusBadRequest, "Missing prompt")
			return
		}
		writeErrorWithCause(r.Context(), w, http.StatusInternalServerError, "failed to generate playlist", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreatePlaylist fakes provider-side playlist creation and returns the
// fabricated id and URL.
func (h *MockHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlaylistRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	resp, err := h.creator.Create(req.PlaylistName, req.Tracks)
	if err != nil {
		switch {
		case errors.Is(err, playlist.ErrEmptyName):
			writeError(w, http.StatusBadRequest, "Missing playlistName")
		case errors.Is(err, playlist.ErrNoTracks):
			writeError(w, http.StatusBadRequest, "No tracks to add")
		default:
			writeErrorWithCause(r.Context(), w, http.StatusInternalServerError, "failed to create playlist", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
